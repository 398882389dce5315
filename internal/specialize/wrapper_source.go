package specialize

import "github.com/doarr-lang/dcc/internal/expr"

// derefExprs treats a nil *expr.Exprs (no call/template arguments at all) as
// expr.Empty, so writeWrapperSource never needs a nil check of its own.
func derefExprs(es *expr.Exprs) expr.Exprs {
	if es == nil {
		return expr.Empty
	}
	return *es
}

// joinEmit renders es the way a C++ argument or template-argument list is
// written, joined with ", ", numbering Dyn leaves with one running index
// across the whole list (DOARR_EXPORT[0], DOARR_EXPORT[1], ...).
func joinEmit(es expr.Exprs) string {
	if es.Len() == 0 {
		return ""
	}
	// Emitting the list as the arguments of a call to an empty name shares
	// one parameter index across all elements; the "(" and ")" are dropped.
	s := expr.NewCall(expr.NewRaw(""), es, '(', ')').Emit()
	return s[1 : len(s)-1]
}
