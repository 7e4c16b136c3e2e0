package types

// Fresh mints monotonically increasing type-variable ids. It is owned by one
// inference context; §5 requires ids are "never reused within a context"
// and that the counter is per-context when resetCounter is requested, else
// shared (callers wanting process-wide behavior hold one Fresh across
// contexts; callers wanting isolation construct a new Fresh per program).
type Fresh struct {
	next VarID
}

// NewFresh returns a counter starting after start (0 for a from-scratch run).
func NewFresh(start VarID) *Fresh {
	return &Fresh{next: start}
}

// Var mints a fresh type variable.
func (f *Fresh) Var() Var {
	f.next++
	return Var{ID: f.next}
}

// Reset restarts the counter at zero, per the resetCounter option (§6).
func (f *Fresh) Reset() {
	f.next = 0
}

// Counter reports the most recently minted id (the start value if none has
// been minted yet), for diagnostics/tests.
func (f *Fresh) Counter() VarID {
	return f.next
}
