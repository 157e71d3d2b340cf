// Package hostfuncs exposes addon operations as named JSON host functions.
//
// Each operation becomes a ByteHandler that decodes a CallRequest, invokes the
// operation and encodes a CallResponse. Handlers live in an immutable
// HandlerRegistry, optionally wrapped by middleware (panic recovery, logging).
// The package has no WASM runtime dependency; see infrastructure/wazero for
// the wazero adapter.
package hostfuncs
