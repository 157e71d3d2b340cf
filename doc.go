// Package addon exposes the sample native operations to a dynamically typed
// host.
//
// A Module binds five operations:
//
//	Add(a, b)               sync      a + b (int32)
//	GetFileList()           sync      [{filePath, fileSize}, ...]
//	GetPower10(n, callback) callback  n^10
//	GetPower20(n)           promise   n^20
//	GetPower30(n, callback) callback  n^30
//
// Arguments are untyped ([]any) the way a script engine hands them over and
// are checked against the operation table before any work is done: a wrong
// count or kind is returned at once as a TypeError, whatever the delivery mode.
// Asynchronous results are delivered on the module's event loop, so a host
// calls Run after issuing calls:
//
//	mod, _ := addon.New()
//	_ = mod.GetPower10(2, func(err error, v any) { fmt.Println(err, v) })
//	p, _ := mod.GetPower20(2)
//	p.Then(func(v any) { fmt.Println(v) })
//	_ = mod.Run(ctx)
//
// The same Module backs the JavaScript bridge (package jsbridge) and the WASM
// host functions (package hostfuncs).
package addon
