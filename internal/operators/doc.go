// Package operators registers the built-in operators: their schemas, CPU
// implementations and gradient rules.
package operators
