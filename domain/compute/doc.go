// Package compute holds the native computations exposed through the boundary.
// Functions here know nothing about hosts, delivery modes or marshaling.
package compute
