//go:build !unix

package touchboost

import "os"

func defaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
