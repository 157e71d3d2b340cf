// Package binding implements the call contract between native operations and
// a dynamically typed host.
//
// A call flows through four stages:
//
//   - Validate checks the argument list against the operation's declared
//     parameters and coerces it (numbers to int32, functions to Callback).
//     Shape violations are returned to the caller immediately, whatever the
//     operation's delivery mode.
//   - The operation's Native function runs, on the caller's goroutine for
//     synchronous calls or on a worker goroutine for asynchronous ones.
//   - Marshal converts the native result into host-observable values.
//   - The result and any error are folded into one Outcome, which one of three
//     adapters delivers: Binding.Call returns it, Binding.CallWithCallback hands
//     it to an error-first Callback, Binding.CallAsync settles a Promise.
//
// Asynchronous deliveries never run on worker goroutines. They are posted to a
// Loop and executed by the single goroutine running Loop.Run, which is the
// host's execution context. Each invocation delivers exactly once.
package binding
