// Package memory provides in-memory implementations of the driven stores.
package memory
