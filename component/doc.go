// Package component defines the lifecycle contract shared by the
// infrastructure pieces of reqkit (HTTP clients, token stores) and a
// registry that starts them in order and stops them in reverse.
package component
