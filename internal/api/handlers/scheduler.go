package handlers

import (
	"context"
	"time"

	"waste-wrangler-service/internal/domain"
)

// Scheduler is the operation surface the handlers drive.
type Scheduler interface {
	ScheduleTrip(ctx context.Context, rid int, at time.Time) bool
	ScheduleTrips(ctx context.Context, tid int, date time.Time) int
	ScheduleMaintenance(ctx context.Context, date time.Time) int
	WorkmateSphere(ctx context.Context, eid int) []int
	RerouteWaste(ctx context.Context, fid int, date time.Time) int
	UpdateTechnicians(ctx context.Context, records []domain.Qualification) int
}
