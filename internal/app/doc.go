// Package app wires the server process together: configuration,
// logging, dataset loading, the analytics service and the HTTP
// server, with graceful shutdown on interrupt.
package app
