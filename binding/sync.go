package binding

// Call is the synchronous adapter: it validates, computes on the caller's
// goroutine and returns the marshaled value or the BoundaryError directly.
func (b Binding) Call(args ...any) (any, error) {
	coerced, err := Validate(b.Op.Params, args)
	if err != nil {
		return nil, err
	}
	return b.compute(coerced).Unpack()
}
