// Package middleware decorates ports.StateStore implementations.
//
// The encryption middleware seals conversation answers at rest so a shared
// Redis or session directory does not expose where users travel.
package middleware
