// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. The only I/O they do directly is
// writing rendered documents into the configured output directory.
package services
