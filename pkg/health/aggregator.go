package health

import (
	"sync"
	"time"
)

// Report combines every registered component's status into one document.
type Report struct {
	// Status is the overall system state: unhealthy if any component is
	// unhealthy, degraded if any component is degraded, healthy otherwise.
	Status State `json:"status"`

	// Healthy, Degraded and Unhealthy count components by state.
	Healthy   int `json:"healthy"`
	Degraded  int `json:"degraded"`
	Unhealthy int `json:"unhealthy"`

	// Services maps component name to its individual status.
	Services map[string]Status `json:"services"`

	// CheckedAt is when the report was assembled.
	CheckedAt time.Time `json:"checked_at"`
}

// Aggregator collects Checkers and assembles system-wide health reports.
type Aggregator struct {
	mu         sync.RWMutex
	components map[string]Checker
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		components: make(map[string]Checker),
	}
}

// Register adds a named component. Registering the same name twice
// replaces the previous checker.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.components[name] = checker
}

// Report queries every registered component and combines the results.
func (a *Aggregator) Report() Report {
	a.mu.RLock()
	checkers := make(map[string]Checker, len(a.components))
	for name, c := range a.components {
		checkers[name] = c
	}
	a.mu.RUnlock()

	report := Report{
		Status:    StateHealthy,
		Services:  make(map[string]Status, len(checkers)),
		CheckedAt: time.Now(),
	}

	for name, checker := range checkers {
		status := checker.GetHealthStatus()
		report.Services[name] = status

		switch status.State {
		case StateUnhealthy:
			report.Unhealthy++
		case StateDegraded:
			report.Degraded++
		default:
			report.Healthy++
		}
	}

	if report.Unhealthy > 0 {
		report.Status = StateUnhealthy
	} else if report.Degraded > 0 {
		report.Status = StateDegraded
	}

	return report
}
