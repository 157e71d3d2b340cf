package hostfuncs

// HostFuncBundle is a set of related host functions registered together.
type HostFuncBundle interface {
	Handlers() map[string]ByteHandler
}

type staticBundle map[string]ByteHandler

func (b staticBundle) Handlers() map[string]ByteHandler {
	return b
}

// AddonBundle exposes every operation of inv as a host function of the same
// name.
func AddonBundle(inv Invoker) HostFuncBundle {
	b := make(staticBundle)
	for _, op := range inv.Operations() {
		b[op.Name] = NewOperationHandler(inv, op.Name)
	}
	return b
}

type compositeBundle []HostFuncBundle

func (c compositeBundle) Handlers() map[string]ByteHandler {
	out := make(map[string]ByteHandler)
	for _, b := range c {
		for name, h := range b.Handlers() {
			out[name] = h
		}
	}
	return out
}

// Bundles combines several bundles. On a name clash the later bundle wins.
func Bundles(bundles ...HostFuncBundle) HostFuncBundle {
	return compositeBundle(bundles)
}
