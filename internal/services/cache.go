package services

import "context"

// DateRange is a booked span shown to the calendar, as YYYY-MM-DD
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AvailabilityCache stores the committed date ranges of a vehicle
type AvailabilityCache interface {
	Get(ctx context.Context, vehicleID string) ([]DateRange, bool)
	Set(ctx context.Context, vehicleID string, ranges []DateRange)
	Invalidate(ctx context.Context, vehicleID string)
}

// NopCache never hits. Used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]DateRange, bool) { return nil, false }
func (NopCache) Set(context.Context, string, []DateRange)         {}
func (NopCache) Invalidate(context.Context, string)               {}
