// Package wazero registers a hostfuncs.HandlerRegistry with a wazero runtime.
//
// Every registered handler becomes an export of one host module (default
// "addon_host") with the signature (i64) -> i64. The argument and the result
// are packed pointer/length pairs into guest memory: pointer in the upper 32
// bits, length in the lower 32 bits. The response is written to memory the
// guest allocates through its "allocate" export.
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithBundle(hostfuncs.AddonBundle(mod)),
//	)
//	if err != nil {
//	    return err
//	}
//	runtime := wazero.NewRuntime(ctx)
//	err = wazeroadapter.RegisterWithRuntime(ctx, runtime, registry)
//
// Functions that do not follow the request/response shape, such as the
// one-way log_message, are added with WithCustomHandler.
package wazero
