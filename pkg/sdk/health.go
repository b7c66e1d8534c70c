package piecedex

import "context"

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component ("database", "search_engine") → "ok"/"error"
}

// Healthy reports whether every component answered.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }

// Health pings the relational store and the search engine.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for component, res := range report.Checks {
		checks[component] = string(res)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}
