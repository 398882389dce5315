package expr

import "strings"

// Emit renders the wrapper-source text for e. Dyn leaves print
// "DOARR_EXPORT[<k>].<tag>" where k is assigned in the same left-to-right
// order ExtractParams fills its output array, so the two always agree on
// which slot a given Dyn leaf occupies (SPEC_FULL.md §4.E's invariant).
func (e *Expr) Emit() string {
	var b strings.Builder
	idx := 0
	e.emit(&b, &idx)
	return b.String()
}

func (e *Expr) emit(b *strings.Builder, idx *int) {
	switch e.kind {
	case KindDyn:
		b.WriteString("DOARR_EXPORT[")
		b.WriteString(itoa(*idx))
		b.WriteString("].")
		b.WriteByte(byte(e.dynTag))
		*idx++
	case KindCall:
		e.fn.emit(b, idx)
		b.WriteByte(e.braceOpen)
		e.args.emit(b, idx)
		b.WriteByte(e.braceClose)
	case KindInfix:
		b.WriteByte('(')
		e.left.emit(b, idx)
		b.WriteString(e.op.Token)
		e.right.emit(b, idx)
		b.WriteByte(')')
	case KindRaw:
		b.WriteString(e.code)
	}
}

func (es Exprs) emit(b *strings.Builder, idx *int) {
	for i, item := range es.items {
		if i > 0 {
			b.WriteString(", ")
		}
		item.emit(b, idx)
	}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// ExtractParams walks e post-order and returns the packed dynamic-payload
// array a compiled specialization expects, one uint64 per Dyn leaf, in the
// same order those leaves appear in Emit's output.
func (e *Expr) ExtractParams() []uint64 {
	out := make([]uint64, e.nparams)
	idx := 0
	e.extract(out, &idx)
	return out
}

func (e *Expr) extract(out []uint64, idx *int) {
	switch e.kind {
	case KindDyn:
		out[*idx] = e.dynVal
		*idx++
	case KindCall:
		e.fn.extract(out, idx)
		for _, a := range e.args.items {
			a.extract(out, idx)
		}
	case KindInfix:
		e.left.extract(out, idx)
		e.right.extract(out, idx)
	case KindRaw:
		// no dynamic leaves
	}
}
