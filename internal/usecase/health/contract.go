package health

import "context"

// IndexPinger checks content index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// EventsChecker checks event broker availability.
type EventsChecker interface {
	HealthCheck(ctx context.Context) error
}
