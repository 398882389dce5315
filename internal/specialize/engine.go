package specialize

// Engine is the runtime specialization engine's single entry point: given an
// exported entry point and the call shape a caller wants, it runs the
// matching specialization, compiling and caching a new one exactly once per
// distinct shape (SPEC_FULL.md §4.E–§4.F).
type Engine struct {
	cache    *Cache
	compiler *Compiler
}

func NewEngine(compiler *Compiler) *Engine {
	return &Engine{cache: NewCache(), compiler: compiler}
}

// Invoke runs entry at shape with params, compiling (and caching) a fresh
// specialization first if this exact shape hasn't been seen before. A
// template-argument tree with any dynamic leaf is a usage error — a runtime
// value can't stand in for a compile-time template parameter — and is
// rejected before the cache is even consulted (SPEC_FULL.md §4.G's
// precondition). The call itself is void (§9 OQ-2): any output a caller
// needs travels through params, not a return value.
func (e *Engine) Invoke(entry *Entry, shape CallShape, params []uint64) error {
	if shape.TemplateArgs != nil && shape.TemplateArgs.NumParams() > 0 {
		return &LogicError{Entry: entry.Name}
	}

	fn := e.cache.Lookup(entry, shape)
	if fn == nil {
		compiled, err := e.compiler.Compile(entry, shape)
		if err != nil {
			return err
		}
		e.cache.Insert(entry, shape, compiled)
		fn = compiled
	}
	fn.Call(params)
	return nil
}

// Stats reports how many distinct shapes have been compiled for entry, for
// diagnostics/logging.
func (e *Engine) Stats(entry *Entry) int {
	return len(e.cache.byEntry[entry])
}
