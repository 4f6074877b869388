package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"pgregory.net/rapid"

	"waste-wrangler-service/internal/adapters/repositories"
	"waste-wrangler-service/internal/domain"
)

// batchFixture books route 1 on truck 2 with Cid and Dee so that the batch
// for truck 1 starts from routes 2, 3 and 4 with Ann and Bob.
func batchFixture() repositories.Fixture {
	f := baseFixture()
	f.Trips = []repositories.TripSeed{
		{Route: 1, Truck: 2, Start: "2024-06-03 08:00", Driver1: 3, Driver2: 4, Facility: 1},
	}
	return f
}

func TestScheduleTripsFillsDay(t *testing.T) {
	s, store := newTestScheduler(t, batchFixture())
	ctx := context.Background()

	if got := s.ScheduleTrips(ctx, 1, day); got != 2 {
		t.Fatalf("ScheduleTrips(1) = %d, want 2", got)
	}

	var got []domain.Trip
	for _, tr := range tripsOn(t, store, day) {
		if tr.TruckID == 1 {
			got = append(got, tr)
		}
	}
	// Route 4 takes four hours and would end at 17:02.
	want := []domain.Trip{
		{RouteID: 2, TruckID: 1, Start: at(day, 8, 0), Driver1: 1, Driver2: 2, FacilityID: 1, RouteLength: 10},
		{RouteID: 3, TruckID: 1, Start: at(day, 10, 31), Driver1: 1, Driver2: 2, FacilityID: 1, RouteLength: 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("batch trips mismatch (-want +got):\n%s", diff)
	}

	// Every driver is now committed for the day.
	if got := s.ScheduleTrips(ctx, 1, day); got != 0 {
		t.Fatalf("second ScheduleTrips(1) = %d, want 0", got)
	}
	if n := count(t, store, "trip"); n != 3 {
		t.Fatalf("trip rows = %d, want 3", n)
	}
}

func TestScheduleTripsDriverPairOrderedByID(t *testing.T) {
	f := baseFixture()
	// Dee is senior to Cid here; the stored pair is still (3, 4).
	f.Employees[3].HireDate = "2005-01-01"
	f.Trips = []repositories.TripSeed{
		{Route: 1, Truck: 1, Start: "2024-06-03 08:00", Driver1: 1, Driver2: 2, Facility: 1},
	}
	s, store := newTestScheduler(t, f)

	if got := s.ScheduleTrips(context.Background(), 2, day); got != 2 {
		t.Fatalf("ScheduleTrips(2) = %d, want 2", got)
	}
	for _, tr := range tripsOn(t, store, day) {
		if tr.TruckID != 2 {
			continue
		}
		if tr.Driver1 != 3 || tr.Driver2 != 4 {
			t.Fatalf("drivers = (%d, %d), want (3, 4)", tr.Driver1, tr.Driver2)
		}
	}
}

func TestScheduleTripsDeclines(t *testing.T) {
	tests := []struct {
		name   string
		truck  int
		adjust func(*repositories.Fixture)
	}{
		{name: "unknown truck", truck: 42},
		{name: "under maintenance", truck: 1, adjust: func(f *repositories.Fixture) {
			f.Maintenance = []repositories.MaintenanceSeed{{Truck: 1, Technician: 5, Date: "2024-06-03"}}
		}},
		{name: "no qualified pair", truck: 3, adjust: func(f *repositories.Fixture) {
			f.Employees[3].Drives = []string{"roll-off"}
		}},
		{name: "no facility", truck: 3, adjust: func(f *repositories.Fixture) {
			f.Facilities = f.Facilities[:2]
		}},
		{name: "first route too long", truck: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := baseFixture()
			if tc.adjust != nil {
				tc.adjust(&f)
			}
			s, store := newTestScheduler(t, f)
			if got := s.ScheduleTrips(context.Background(), tc.truck, day); got != 0 {
				t.Fatalf("ScheduleTrips(%d) = %d, want 0", tc.truck, got)
			}
			if n := count(t, store, "trip"); n != 0 {
				t.Fatalf("trip rows = %d, want 0", n)
			}
		})
	}
}

func TestScheduleTripsKeepsSharedResourcesApart(t *testing.T) {
	s, store := newTestScheduler(t, batchFixture())
	ctx := context.Background()

	if got := s.ScheduleTrips(ctx, 1, day); got == 0 {
		t.Fatalf("ScheduleTrips(1) scheduled nothing")
	}
	s.ScheduleTrips(ctx, 2, day)

	trips := tripsOn(t, store, day)
	for i, a := range trips {
		for _, b := range trips[i+1:] {
			shared := a.TruckID == b.TruckID || a.HasDriver(b.Driver1) || a.HasDriver(b.Driver2)
			if shared && domain.Conflicts(a.Window(), b.Window()) {
				t.Fatalf("trips %+v and %+v share a resource and conflict", a, b)
			}
		}
	}
}

func TestScheduleTripsUsesMorningBeforeExistingTrip(t *testing.T) {
	f := baseFixture()
	// Route 1 becomes a one-hour run already booked on truck 1 at 14:00.
	f.Routes[0].Length = 5
	f.Trips = []repositories.TripSeed{
		{Route: 1, Truck: 1, Start: "2024-06-03 14:00", Driver1: 3, Driver2: 4, Facility: 1},
	}
	s, store := newTestScheduler(t, f)

	if got := s.ScheduleTrips(context.Background(), 1, day); got != 2 {
		t.Fatalf("ScheduleTrips(1) = %d, want 2", got)
	}

	var got []time.Time
	for _, tr := range tripsOn(t, store, day) {
		if tr.TruckID == 1 && tr.RouteID != 1 {
			got = append(got, tr.Start)
		}
	}
	// Route 4 cannot finish before the 14:00 trip and cannot start after it.
	want := []time.Time{at(day, 8, 0), at(day, 10, 31)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("batch starts mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduleTripsRollsBackWholeBatch(t *testing.T) {
	inner := newTestStore(t, batchFixture())
	s := NewScheduler(faultyStore{inner: inner, failAt: 2}, zerolog.Nop(), nil)

	if got := s.ScheduleTrips(context.Background(), 1, day); got != 0 {
		t.Fatalf("ScheduleTrips = %d, want 0", got)
	}
	if n := count(t, inner, "trip"); n != 1 {
		t.Fatalf("trip rows = %d, want only the seeded trip", n)
	}
}

func TestPlanDay(t *testing.T) {
	r := func(id int, length float64) domain.Route { return domain.Route{ID: id, WasteType: "organic", Length: length} }

	tests := []struct {
		name     string
		existing []domain.Trip
		routes   []domain.Route
		want     []time.Time
	}{
		{
			name:   "back to back",
			routes: []domain.Route{r(1, 10), r(2, 10), r(3, 10)},
			want:   []time.Time{at(day, 8, 0), at(day, 10, 31), at(day, 13, 2)},
		},
		{
			name:     "ends exactly at 15:30",
			existing: []domain.Trip{{Start: at(day, 8, 59)}},
			routes:   []domain.Route{r(1, 30), r(2, 0)},
			want:     []time.Time{at(day, 9, 30)},
		},
		{
			name:   "stops at first misfit",
			routes: []domain.Route{r(1, 30), r(2, 10), r(3, 0)},
			want:   []time.Time{at(day, 8, 0)},
		},
		{
			name:   "first route too long",
			routes: []domain.Route{r(1, 40), r(2, 5)},
		},
		{
			name:     "after a morning trip",
			existing: []domain.Trip{{Start: at(day, 8, 0), RouteLength: 15}},
			routes:   []domain.Route{r(1, 10)},
			want:     []time.Time{at(day, 11, 31)},
		},
		{
			name:     "before an afternoon trip",
			existing: []domain.Trip{{Start: at(day, 14, 0), RouteLength: 5}},
			routes:   []domain.Route{r(1, 10), r(2, 10), r(3, 5)},
			want:     []time.Time{at(day, 8, 0), at(day, 10, 31)},
		},
		{
			name:     "between two trips",
			existing: []domain.Trip{{Start: at(day, 8, 0), RouteLength: 5}, {Start: at(day, 12, 0), RouteLength: 5}},
			routes:   []domain.Route{r(1, 5), r(2, 5)},
			want:     []time.Time{at(day, 9, 31), at(day, 13, 31)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []time.Time
			for _, p := range planDay(day, tc.existing, tc.routes) {
				got = append(got, p.start)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("starts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanDayProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lengths := rapid.SliceOfN(rapid.Float64Range(0, 45), 0, 12).Draw(t, "lengths")
		routes := make([]domain.Route, len(lengths))
		for i, l := range lengths {
			routes[i] = domain.Route{ID: i + 1, Length: l}
		}
		var existing []domain.Trip
		if rapid.Bool().Draw(t, "existing") {
			minute := rapid.IntRange(8*60, 15*60).Draw(t, "existing start")
			existing = append(existing, domain.Trip{
				Start:       at(day, minute/60, minute%60),
				RouteLength: float64(rapid.IntRange(0, 10).Draw(t, "existing length")),
			})
		}

		plan := planDay(day, existing, routes)
		for i, p := range plan {
			if p.route.ID != i+1 {
				t.Fatalf("placement %d is route %d; plan must be a prefix of the route list", i, p.route.ID)
			}
			if p.start.Before(domain.WorkdayStart(day)) {
				t.Fatalf("route %d starts %s before the working day", p.route.ID, p.start)
			}
			end := p.start.Add(p.route.Duration())
			if end.After(latestBatchEnd(day)) {
				t.Fatalf("route %d ends %s after %s", p.route.ID, end, latestBatchEnd(day))
			}
			w := domain.Window{Start: p.start, Length: p.route.Length}
			for _, e := range existing {
				if domain.Conflicts(e.Window(), w) {
					t.Fatalf("route %d at %s conflicts with existing trip at %s", p.route.ID, p.start, e.Start)
				}
			}
			if i > 0 {
				prev := plan[i-1]
				if gap := p.start.Sub(prev.start.Add(prev.route.Duration())); gap <= domain.Buffer {
					t.Fatalf("routes %d and %d only %v apart", prev.route.ID, p.route.ID, gap)
				}
			}
		}
		if len(existing) == 0 && len(plan) < len(routes) {
			next := routes[len(plan)]
			cursor := domain.WorkdayStart(day)
			if len(plan) > 0 {
				last := plan[len(plan)-1]
				cursor = last.start.Add(last.route.Duration() + domain.Buffer + slotStep)
			}
			if !cursor.Add(next.Duration()).After(latestBatchEnd(day)) {
				t.Fatalf("route %d fits at %s but was not placed", next.ID, cursor)
			}
		}
	})
}
