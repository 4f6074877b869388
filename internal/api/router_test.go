package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"waste-wrangler-service/internal/api/handlers"
	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/platform/obs"
)

type call struct {
	op   string
	id   int
	when time.Time
}

type fakeScheduler struct {
	calls   []call
	records []domain.Qualification
	reqIDs  []string
}

func (f *fakeScheduler) record(ctx context.Context, c call) {
	f.calls = append(f.calls, c)
	f.reqIDs = append(f.reqIDs, obs.RequestID(ctx))
}

func (f *fakeScheduler) ScheduleTrip(ctx context.Context, rid int, at time.Time) bool {
	f.record(ctx, call{"trip", rid, at})
	return rid == 1
}

func (f *fakeScheduler) ScheduleTrips(ctx context.Context, tid int, date time.Time) int {
	f.record(ctx, call{"trips", tid, date})
	return 2
}

func (f *fakeScheduler) ScheduleMaintenance(ctx context.Context, date time.Time) int {
	f.record(ctx, call{"maintenance", 0, date})
	return 3
}

func (f *fakeScheduler) WorkmateSphere(ctx context.Context, eid int) []int {
	f.record(ctx, call{"sphere", eid, time.Time{}})
	if eid == 1 {
		return []int{2, 3}
	}
	return []int{}
}

func (f *fakeScheduler) RerouteWaste(ctx context.Context, fid int, date time.Time) int {
	f.record(ctx, call{"reroute", fid, date})
	return 4
}

func (f *fakeScheduler) UpdateTechnicians(ctx context.Context, records []domain.Qualification) int {
	f.record(ctx, call{"technicians", len(records), time.Time{}})
	f.records = records
	return len(records)
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouterEndpoints(t *testing.T) {
	d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		want     map[string]any
		wantCall call
	}{
		{
			name: "schedule trip", method: http.MethodPost, target: "/trips",
			body:     `{"route_id":1,"start_at":"2024-06-03T08:00:00Z"}`,
			want:     map[string]any{"scheduled": true},
			wantCall: call{"trip", 1, d.Add(8 * time.Hour)},
		},
		{
			name: "schedule trip declined", method: http.MethodPost, target: "/trips",
			body:     `{"route_id":7,"start_at":"2024-06-03T13:00:00Z"}`,
			want:     map[string]any{"scheduled": false},
			wantCall: call{"trip", 7, d.Add(13 * time.Hour)},
		},
		{
			name: "schedule day", method: http.MethodPost, target: "/trips/day",
			body:     `{"truck_id":5,"date":"2024-06-03"}`,
			want:     map[string]any{"scheduled": float64(2)},
			wantCall: call{"trips", 5, d},
		},
		{
			name: "maintenance", method: http.MethodPost, target: "/maintenance",
			body:     `{"date":"2024-06-03"}`,
			want:     map[string]any{"scheduled": float64(3)},
			wantCall: call{"maintenance", 0, d},
		},
		{
			name: "workmates", method: http.MethodGet, target: "/workmates?employee_id=1",
			want:     map[string]any{"employee_id": float64(1), "workmates": []any{float64(2), float64(3)}},
			wantCall: call{"sphere", 1, time.Time{}},
		},
		{
			name: "no workmates", method: http.MethodGet, target: "/workmates?employee_id=9",
			want:     map[string]any{"employee_id": float64(9), "workmates": []any{}},
			wantCall: call{"sphere", 9, time.Time{}},
		},
		{
			name: "reroute", method: http.MethodPost, target: "/facilities/reroute",
			body:     `{"facility_id":2,"date":"2024-06-03"}`,
			want:     map[string]any{"rerouted": float64(4)},
			wantCall: call{"reroute", 2, d},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeScheduler{}
			h := NewRouter(fake, nil, zerolog.Nop(), nil)

			rec := serve(t, h, tc.method, tc.target, tc.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			if diff := cmp.Diff(tc.want, decode(t, rec)); diff != "" {
				t.Fatalf("body mismatch (-want +got):\n%s", diff)
			}
			if len(fake.calls) != 1 {
				t.Fatalf("scheduler called %d times, want 1", len(fake.calls))
			}
			got := fake.calls[0]
			if got.op != tc.wantCall.op || got.id != tc.wantCall.id || !got.when.Equal(tc.wantCall.when) {
				t.Fatalf("call = %+v, want %+v", got, tc.wantCall)
			}
		})
	}
}

func TestRouterRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "/trips", "", http.StatusMethodNotAllowed},
		{"unknown field", http.MethodPost, "/trips", `{"route_id":1,"start_at":"2024-06-03T08:00:00Z","x":1}`, http.StatusBadRequest},
		{"two objects", http.MethodPost, "/maintenance", `{"date":"2024-06-03"}{}`, http.StatusBadRequest},
		{"missing start", http.MethodPost, "/trips", `{"route_id":1}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/trips/day", `{"truck_id":1,"date":"03/06/2024"}`, http.StatusBadRequest},
		{"bad facility", http.MethodPost, "/facilities/reroute", `{"facility_id":0,"date":"2024-06-03"}`, http.StatusBadRequest},
		{"bad employee", http.MethodGet, "/workmates?employee_id=abc", "", http.StatusBadRequest},
		{"health post", http.MethodPost, "/health", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeScheduler{}
			rec := serve(t, NewRouter(fake, nil, zerolog.Nop(), nil), tc.method, tc.target, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if len(fake.calls) != 0 {
				t.Fatalf("scheduler called on a rejected request")
			}
		})
	}
}

func TestRouterTechnicianFeed(t *testing.T) {
	fake := &fakeScheduler{}
	h := NewRouter(fake, nil, zerolog.Nop(), nil)

	rec := serve(t, h, http.MethodPost, "/technicians/qualifications", "Eve Evans\nroll-off\nMadonna\ncompactor\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decode(t, rec)
	if body["updated"] != float64(1) {
		t.Fatalf("updated = %v, want 1", body["updated"])
	}
	if warnings, _ := body["warnings"].([]any); len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one", body["warnings"])
	}
	want := []domain.Qualification{{FirstName: "Eve", LastName: "Evans", TruckType: "roll-off"}}
	if diff := cmp.Diff(want, fake.records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRouterTechnicianFeedTooLarge(t *testing.T) {
	fake := &fakeScheduler{}
	h := NewRouter(fake, nil, zerolog.Nop(), nil)

	record := "Eve Evans\nroll-off\n"
	feed := strings.Repeat(record, (1<<20)/len(record)+1)
	rec := serve(t, h, http.MethodPost, "/technicians/qualifications", feed)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("scheduler called %d times for an oversized feed", len(fake.calls))
	}
}

func TestRouterRequestID(t *testing.T) {
	fake := &fakeScheduler{}
	h := NewRouter(fake, nil, zerolog.Nop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/workmates?employee_id=1", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("response %s = %q, want abc-123", requestIDHeader, got)
	}
	if fake.reqIDs[0] != "abc-123" {
		t.Fatalf("scheduler saw request id %q", fake.reqIDs[0])
	}

	rec = serve(t, h, http.MethodGet, "/health", "")
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a generated request id")
	}
}

func TestRouterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := obs.NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("NewPromRecorder: %v", err)
	}
	rec.ObserveOperation("schedule_trip", "ok", time.Millisecond)

	h := NewRouter(&fakeScheduler{}, nil, zerolog.Nop(), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	res := serve(t, h, http.MethodGet, "/metrics", "")
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if !strings.Contains(res.Body.String(), "wastewrangler_operations_total") {
		t.Fatalf("metrics output missing operations counter:\n%s", res.Body.String())
	}

	if got := serve(t, NewRouter(&fakeScheduler{}, nil, zerolog.Nop(), nil), http.MethodGet, "/metrics", ""); got.Code != http.StatusNotFound {
		t.Fatalf("status without metrics = %d, want 404", got.Code)
	}
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestRouterHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     handlers.Pinger
		want   int
		status string
	}{
		{"no store", nil, http.StatusOK, "ok"},
		{"store up", pinger{}, http.StatusOK, "ok"},
		{"store down", pinger{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}, http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, NewRouter(&fakeScheduler{}, tc.db, zerolog.Nop(), nil), http.MethodGet, "/health", "")
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
			want := map[string]any{"status": tc.status}
			if diff := cmp.Diff(want, decode(t, rec)); diff != "" {
				t.Fatalf("health body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
