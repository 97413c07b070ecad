package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "test-key", nil)
}

func TestClient_FetchCourses(t *testing.T) {
	mockJSON := `[
		{"raw_id": "11210CS 135500", "name_en": "Algorithms", "credits": 3, "times": ["T3T4R4"], "venues": ["DELTA103"]},
		{"raw_id": "", "name_en": "broken row"},
		{"raw_id": "11210MATH102000", "name_zh": "微積分", "credits": 4, "times": ["M3M4"], "venues": ["GEN1"]}
	]`

	hits := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/rest/v1/courses" {
			t.Errorf("expected path /rest/v1/courses, got %s", r.URL.Path)
		}
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("expected apikey header, got %q", r.Header.Get("apikey"))
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		want := `in.("11210MATH102000","11210CS 135500","NOPE")`
		if got := r.URL.Query().Get("raw_id"); got != want {
			t.Errorf("expected raw_id filter %s, got %s", want, got)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mockJSON))
	})

	ids := []string{"11210MATH102000", "11210CS 135500", "NOPE"}
	rows, err := client.FetchCourses(context.Background(), ids)
	if err != nil {
		t.Fatalf("unexpected error fetching mocked courses: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 valid courses, got %d", len(rows))
	}
	if rows[0].RawID != "11210MATH102000" || rows[1].RawID != "11210CS 135500" {
		t.Errorf("expected rows in requested order, got %s, %s", rows[0].RawID, rows[1].RawID)
	}
	if rows[1].Times[0] != "T3T4R4" {
		t.Errorf("expected times to be decoded, got %v", rows[1].Times)
	}

	// Known ids now come from the disk cache.
	rows, err = client.FetchCourses(context.Background(), ids[:2])
	if err != nil {
		t.Fatalf("unexpected error on cached fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 cached courses, got %d", len(rows))
	}
	if hits != 1 {
		t.Errorf("expected cached ids to skip the backend, got %d requests", hits)
	}
}

func TestClient_SearchCourses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		want := "(raw_id.ilike.*calc*,name_zh.ilike.*calc*,name_en.ilike.*calc*)"
		if got := r.URL.Query().Get("or"); got != want {
			t.Errorf("expected or filter %s, got %s", want, got)
		}
		if r.URL.Query().Get("limit") != "50" {
			t.Errorf("expected limit 50, got %s", r.URL.Query().Get("limit"))
		}
		w.Write([]byte(`[{"raw_id": "11210MATH102000", "name_en": "Calculus"}]`))
	})

	rows, err := client.SearchCourses(context.Background(), " calc ")
	if err != nil {
		t.Fatalf("unexpected search error: %v", err)
	}
	if len(rows) != 1 || rows[0].NameEN != "Calculus" {
		t.Errorf("expected one Calculus row, got %+v", rows)
	}

	rows, err = client.SearchCourses(context.Background(), "   ")
	if err != nil || rows != nil {
		t.Errorf("expected empty query to return nothing, got %v, %v", rows, err)
	}
}

func TestClient_FetchBusSchedules(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/bus_schedule" {
			t.Errorf("expected path /rest/v1/bus_schedule, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("route_name"); got != `in.("GU","RU")` {
			t.Errorf("unexpected route filter %s", got)
		}
		w.Write([]byte(`[
			{"id": 1, "route_name": "GU", "schedule": ["07:30", "07:32"], "vehicle": "bus", "days": "Weekday"},
			{"id": 0, "route_name": "GU", "schedule": ["07:40"]},
			{"id": 2, "route_name": "RU", "schedule": ["08:00"], "days": "holiday"}
		]`))
	})

	rows, err := client.FetchBusSchedules(context.Background(), []string{"RU", "GU"})
	if err != nil {
		t.Fatalf("unexpected error fetching schedules: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 valid bus row, got %d", len(rows))
	}
	if rows[0].Days != "weekday" {
		t.Errorf("expected days to be normalized, got %q", rows[0].Days)
	}

	converted := BusRows(rows)
	if converted[0].RouteCode != "GU" || len(converted[0].Schedule) != 2 {
		t.Errorf("unexpected converted row %+v", converted[0])
	}
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client.NoCache = true

	if _, err := client.FetchCourses(context.Background(), []string{"X"}); err == nil {
		t.Fatalf("expected an error for 401 responses")
	}
}

func TestClient_GetWithRetries_Success(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)

	resp, err := client.getWithRetries(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected robust retry to succeed on 3rd attempt, got error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 OK, got %d", resp.StatusCode)
	}
	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}
}

func TestClient_GetWithRetries_Fail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)

	_, err := client.getWithRetries(context.Background(), server.URL)
	if err == nil {
		t.Fatalf("expected robust retry to completely fail after 3 attempts, but got nil error")
	}
}

func TestClient_GetWithRetries_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := client.getWithRetries(ctx, server.URL); err == nil {
		t.Fatalf("expected canceled context to stop retries")
	}
	if time.Since(start) > time.Second {
		t.Errorf("expected retries to stop with the context, took %s", time.Since(start))
	}
}
