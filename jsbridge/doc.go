// Package jsbridge binds the addon into a goja JavaScript runtime.
//
// The operations are installed as functions of an exports object, the way a
// native Node.js addon exposes them. Shape errors are thrown synchronously as
// TypeError; domain errors are Error instances passed to callbacks or used to
// reject promises. Asynchronous results are delivered by RunScript, which
// drains the module's event loop on the goroutine that owns the runtime after
// the script body returns.
//
// A minimal CommonJS shim supports scripts written for Node:
//
//	const assert = require("assert");
//	const sample = require("bindings")("addon.node");
//	sample.GetPower10(2, (err, result) => assert(result == 1024));
package jsbridge
