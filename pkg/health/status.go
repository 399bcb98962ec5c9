// Package health provides component health reporting and aggregation for
// a monitoring collaborator. Components implement Checker; the Aggregator
// combines their statuses into one report.
package health

import "time"

// State classifies a component's operational condition.
type State string

const (
	// StateHealthy indicates normal operation.
	StateHealthy State = "healthy"

	// StateDegraded indicates reduced capability (e.g. a lost cache tier)
	// that does not prevent serving requests.
	StateDegraded State = "degraded"

	// StateUnhealthy indicates the component cannot serve requests reliably.
	StateUnhealthy State = "unhealthy"
)

// Status is a single component's health snapshot.
type Status struct {
	// State is the component's classification.
	State State `json:"state"`

	// Details carries component-specific context (error rates, headroom,
	// connection flags). Never used for state decisions by the aggregator.
	Details map[string]any `json:"details,omitempty"`

	// CheckedAt is when this snapshot was produced.
	CheckedAt time.Time `json:"checked_at"`
}

// Healthy builds a healthy status with optional details.
func Healthy(details map[string]any) Status {
	return Status{State: StateHealthy, Details: details, CheckedAt: time.Now()}
}

// Degraded builds a degraded status with optional details.
func Degraded(details map[string]any) Status {
	return Status{State: StateDegraded, Details: details, CheckedAt: time.Now()}
}

// Unhealthy builds an unhealthy status with optional details.
func Unhealthy(details map[string]any) Status {
	return Status{State: StateUnhealthy, Details: details, CheckedAt: time.Now()}
}

// Checker is implemented by every component that reports health.
// Implementations must not perform live network probes; health is derived
// from already-known state so reporting never spends upstream quota.
type Checker interface {
	GetHealthStatus() Status
}
