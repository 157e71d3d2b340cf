// Package entities provides the core domain entities of the addon boundary.
// These are the values that cross between native code and the host: operation
// descriptors, structured result records and the wire forms of calls and errors.
package entities
