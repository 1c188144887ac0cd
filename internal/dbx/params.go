package dbx

// ParamKind enumerates the closed set of bindable parameter types. Anything
// richer (timestamps, lists) is flattened to text before binding so both
// drivers see the same wire shape.
type ParamKind int

const (
	ParamNull ParamKind = iota
	ParamInt
	ParamReal
	ParamText
)

// Param is a typed query parameter. Construct via Null, Int, Real or Text.
type Param struct {
	Kind  ParamKind
	IntV  int64
	RealV float64
	TextV string
}

func Null() Param          { return Param{Kind: ParamNull} }
func Int(v int64) Param    { return Param{Kind: ParamInt, IntV: v} }
func Real(v float64) Param { return Param{Kind: ParamReal, RealV: v} }
func Text(v string) Param  { return Param{Kind: ParamText, TextV: v} }

// NullableText binds NULL for nil, text otherwise.
func NullableText(v *string) Param {
	if v == nil {
		return Null()
	}
	return Text(*v)
}

// NullableInt binds NULL for nil, an integer otherwise.
func NullableInt(v *int64) Param {
	if v == nil {
		return Null()
	}
	return Int(*v)
}

// Value returns the parameter as a plain Go value for driver binding.
func (p Param) Value() any {
	switch p.Kind {
	case ParamInt:
		return p.IntV
	case ParamReal:
		return p.RealV
	case ParamText:
		return p.TextV
	default:
		return nil
	}
}
