//go:build unix

package touchboost

import (
	"os"
	"syscall"
)

func defaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
