// Package metrics defines the instrumentation hooks for the ledger engine.
// Components depend on the Collector interface; wiring decides between the
// prometheus-backed implementation and NoOpCollector.
package metrics

import "time"

// Collector receives engine events. Implementations must be safe for
// concurrent use.
type Collector interface {
	// FetchStarted is called when a fetch cycle actually starts (skipped
	// fetches do not count).
	FetchStarted()
	// FetchCompleted reports the outcome of a fetch cycle: "success",
	// "failure" or "timeout".
	FetchCompleted(outcome string, elapsed time.Duration)
	// FetchSkipped reports a coalesced or rate-limited fetch request:
	// "in_flight" or "rate_limited".
	FetchSkipped(reason string)
	// RetryScheduled is called each time an automatic retry is queued.
	RetryScheduled()

	// DeleteCompleted reports a delete attempt per operation type:
	// "deleted", "already_deleted" or "failure".
	DeleteCompleted(opType, outcome string)
	// RestoreCompleted reports a reconciliation outcome: "restored",
	// "no_candidate", "ambiguous" or "failure".
	RestoreCompleted(outcome string)
}

// NoOpCollector discards all events.
type NoOpCollector struct{}

func (NoOpCollector) FetchStarted()                          {}
func (NoOpCollector) FetchCompleted(string, time.Duration)   {}
func (NoOpCollector) FetchSkipped(string)                    {}
func (NoOpCollector) RetryScheduled()                        {}
func (NoOpCollector) DeleteCompleted(opType, outcome string) {}
func (NoOpCollector) RestoreCompleted(string)                {}
