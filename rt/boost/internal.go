package boost

import (
	"bytes"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// fieldVar is the storage slot of one field.
type fieldVar struct {
	f   Field
	def uint64

	cur    atomic.Uint64
	source atomic.Int32 // Source

	lastUpdatedAtUnixNano atomic.Int64

	// writeMu serializes writes of this field only. It is never held while
	// onChange callbacks run.
	writeMu sync.Mutex

	// last/hasLast are protected by writeMu.
	hasLast bool
	last    uint64

	// notifying counts, per goroutine id, the onChange rounds of this field in
	// progress. Used to detect a callback writing the field it was told about.
	notifyMu  sync.Mutex
	notifying map[uint64]int
}

func newFieldVar(f Field, def uint64) *fieldVar {
	v := &fieldVar{f: f, def: def}
	v.cur.Store(def)
	v.source.Store(int32(SourceDefault))
	return v
}

func (v *fieldVar) get() uint64 { return v.cur.Load() }

func (v *fieldVar) lastUpdatedAt() time.Time {
	ns := v.lastUpdatedAtUnixNano.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// store commits newValue. Caller holds the write lock.
func (v *fieldVar) store(newValue uint64) {
	v.cur.Store(newValue)
	if newValue == v.def {
		v.source.Store(int32(SourceDefault))
	} else {
		v.source.Store(int32(SourceRuntimeSet))
	}
	v.lastUpdatedAtUnixNano.Store(time.Now().UnixNano())
}

// lockWrite takes the field's write lock. checkReentry is set when callbacks
// are registered; without a known goroutine id the check is skipped.
func (v *fieldVar) lockWrite(checkReentry bool) error {
	if checkReentry {
		if gid := curGoroutineID(); gid != 0 && v.inNotify(gid) {
			return ErrReentrantWrite
		}
	}
	v.writeMu.Lock()
	return nil
}

func (v *fieldVar) unlockWrite() { v.writeMu.Unlock() }

func (v *fieldVar) inNotify(gid uint64) bool {
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()
	return v.notifying[gid] > 0
}

// notify runs cbs for newValue on the calling goroutine. Caller must not hold
// the write lock.
func (v *fieldVar) notify(cbs []func(Field, uint64), newValue uint64) {
	if len(cbs) == 0 {
		return
	}
	if gid := curGoroutineID(); gid != 0 {
		v.notifyMu.Lock()
		if v.notifying == nil {
			v.notifying = make(map[uint64]int)
		}
		v.notifying[gid]++
		v.notifyMu.Unlock()
		defer func() {
			v.notifyMu.Lock()
			if v.notifying[gid]--; v.notifying[gid] <= 0 {
				delete(v.notifying, gid)
			}
			v.notifyMu.Unlock()
		}()
	}
	for _, cb := range cbs {
		safeCall(cb, v.f, newValue)
	}
}

// curGoroutineID returns the current goroutine id parsed from runtime.Stack, or 0.
//
// Only used on the write path when callbacks are registered.
func curGoroutineID() uint64 {
	var buf [256]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	// "goroutine 123 [running]:\n"
	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0
	}
	var id uint64
	for _, c := range b[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}

func safeCall(fn func(Field, uint64), f Field, v uint64) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(f, v)
}
