// Package host runs WASM guests against the addon.
//
// An Executor owns a wazero runtime with WASI and the "addon_host" module,
// whose exports are the addon operations (see package hostfuncs) plus
// log_message, which replays a guest's structured log records into the host
// logger. Guests exchange data through the packed pointer/length ABI and must
// export "allocate".
package host
