// Package ports defines interfaces for the native collaborators behind the boundary.
// Domain logic depends on these abstractions; infrastructure adapters implement them.
package ports
