// Package application provides application initialization and dependency wiring.
// It encapsulates the creation of block storage, the allocation engine, handlers,
// routers and the HTTP server, keeping the main package focused on CLI parsing
// and orchestration.
package application
