// Package progress defines the per-record events emitted while a batch runs.
package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

// Event captures one processed record's outcome within a run.
type Event struct {
	// RunID identifies the batch run the event belongs to.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Index is the record's zero-based position; Total the batch size.
	Index int
	Total int
	// Identifier is the record's key (VIN or row_<n> fallback).
	Identifier string
	// Status is the record's terminal classification.
	Status carfax.Status
	// Note carries low-volume context such as error text.
	Note string
	// Dur is the record's wall-clock processing time.
	Dur time.Duration
}

// Emitter publishes individual events; the aggregator stays agnostic about
// where they go. Implementations must be safe for concurrent use.
type Emitter interface {
	Emit(evt Event)
}

// Nop discards all events.
type Nop struct{}

// Emit implements Emitter.
func (Nop) Emit(Event) {}
