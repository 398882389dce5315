package specialize

import "github.com/doarr-lang/dcc/internal/expr"

// Compiled is one loaded specialization: the dlopen'd shared object handle
// plus the resolved address of its entry function, ready to be invoked with
// a packed parameter array. Call returns nothing — the wrapper's entry point
// is void (SPEC_FULL.md §9 OQ-2); any result a guest export produces reaches
// the host only through whatever the call arguments' Dyn leaves point at
// (e.g. the `ptr(&c)` out-parameter convention in SPEC_FULL.md §8's example
// scenarios).
type Compiled struct {
	lib  *sharedLib
	Call func(params []uint64)
}

type cacheSlot struct {
	shape CallShape
	fn    *Compiled
}

// Cache maps (entry, call shape) to an already-compiled specialization.
// Never evicts: a process that runs long enough to exhaust memory on
// distinct call shapes has a call-site explosion problem no cache policy
// fixes (SPEC_FULL.md §4.F). Not safe for concurrent callers — the runtime
// engine handles one specialization request at a time (§5); a caller that
// wants concurrent callers must serialize its own calls into Lookup/Insert.
type Cache struct {
	byEntry map[*Entry][]cacheSlot
}

func NewCache() *Cache {
	return &Cache{byEntry: make(map[*Entry][]cacheSlot)}
}

// Lookup returns the cached specialization for entry at shape, or nil if
// none has been compiled yet.
func (c *Cache) Lookup(entry *Entry, shape CallShape) *Compiled {
	for _, slot := range c.byEntry[entry] {
		if shapeEqual(slot.shape, shape) {
			return slot.fn
		}
	}
	return nil
}

// Insert records a newly compiled specialization. Callers must only insert
// after Lookup has confirmed no entry exists for this exact shape — a
// failed compile is never inserted, so a subsequent call at the same shape
// simply retries (§4.F's insert-or-compile-or-discard-on-failure rule).
func (c *Cache) Insert(entry *Entry, shape CallShape, fn *Compiled) {
	c.byEntry[entry] = append(c.byEntry[entry], cacheSlot{shape: shape, fn: fn})
}

func shapeEqual(a, b CallShape) bool {
	return exprsEqual(a.TemplateArgs, b.TemplateArgs) && exprsEqual(a.CallArgs, b.CallArgs)
}

func exprsEqual(a, b *expr.Exprs) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
