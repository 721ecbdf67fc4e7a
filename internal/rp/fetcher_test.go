package rp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"echobot/internal/analytics"
)

// fetcherServer serves two launches and per-launch item lists.
func fetcherServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/demo/launch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": [
			{"id": 1, "name": "nightly #1", "startTime": 1750000000000,
			 "attributes": [{"key": "release", "value": "2.12"}],
			 "statistics": {"executions": {"total": 3, "passed": 2, "failed": 1, "skipped": 0}}},
			{"id": 2, "name": "nightly #2",
			 "statistics": {"executions": {"total": 2, "passed": 2, "failed": 0}}}
		]}`))
	})
	mux.HandleFunc("/api/v1/demo/item", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("filter.eq.launchId") {
		case "1":
			w.Write([]byte(`{"content": [
				{"id": 10, "name": "test_login", "status": "FAILED",
				 "description": "TimeoutException: waited 30s",
				 "startTime": 1750000000000, "endTime": 1750000001500},
				{"id": 11, "name": "test_logout", "status": "PASSED"}
			]}`))
		case "2":
			w.Write([]byte(`{"content": [
				{"id": 20, "name": "test_login", "status": "PASSED"}
			]}`))
		default:
			t.Errorf("unexpected launch filter %q", r.URL.Query().Get("filter.eq.launchId"))
			w.Write([]byte(`{"content": []}`))
		}
	})
	return httptest.NewServer(mux)
}

func TestFetcherAnalyticsData(t *testing.T) {
	srv := fetcherServer(t)
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	fetcher := NewFetcher(client, "demo")

	launches, items, err := fetcher.AnalyticsData(context.Background(), "release:2.12")
	if err != nil {
		t.Fatal(err)
	}

	start := time.UnixMilli(1750000000000)
	wantLaunches := []analytics.Launch{
		{
			ID: "1", Name: "nightly #1", StartTime: &start,
			Total: 3, Passed: 2, Failed: 1,
			Attributes: []analytics.Attribute{{Key: "release", Value: "2.12"}},
		},
		{ID: "2", Name: "nightly #2", Total: 2, Passed: 2},
	}
	if diff := cmp.Diff(wantLaunches, launches); diff != "" {
		t.Errorf("launches mismatch (-want +got):\n%s", diff)
	}

	wantItems := map[string][]analytics.TestItem{
		"1": {
			{Name: "test_login", Status: "FAILED", Description: "TimeoutException: waited 30s", Duration: 1500},
			{Name: "test_logout", Status: "PASSED"},
		},
		"2": {
			{Name: "test_login", Status: "PASSED"},
		},
	}
	if diff := cmp.Diff(wantItems, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcherAnalyticsDataItemError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/demo/launch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": [{"id": 1, "name": "broken"}]}`))
	})
	mux.HandleFunc("/api/v1/demo/item", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "boom"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = NewFetcher(client, "demo").AnalyticsData(context.Background(), "")
	if !HasStatusCode(err, http.StatusInternalServerError) {
		t.Fatalf("err = %v, want HTTP 500 API error", err)
	}
}

func TestFetcherListLaunches(t *testing.T) {
	srv := fetcherServer(t)
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	summaries, err := NewFetcher(client, "demo").ListLaunches(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	want := []LaunchSummary{
		{ID: 1, Name: "nightly #1", PassRate: float64(2) / float64(3) * 100, URL: srv.URL + "/ui/#demo/launches/all/1"},
		{ID: 2, Name: "nightly #2", PassRate: 100, URL: srv.URL + "/ui/#demo/launches/all/2"},
	}
	if diff := cmp.Diff(want, summaries); diff != "" {
		t.Errorf("summaries mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcherListLaunchesZeroExecutions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/demo/launch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": [{"id": 5, "name": "empty"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	summaries, err := NewFetcher(client, "demo").ListLaunches(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].PassRate != 0 {
		t.Errorf("summaries = %+v, want single entry with 0 pass rate", summaries)
	}
}

// Guards against duplicated query params from shared option slices when
// ListAll appends pagination options across pages.
func TestFetcherManyLaunches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/demo/launch", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page.page") == "1" {
			w.Write([]byte(fullLaunchPage(100)))
			return
		}
		w.Write([]byte(`{"content": []}`))
	})
	mux.HandleFunc("/api/v1/demo/item", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": []}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	launches, items, err := NewFetcher(client, "demo").AnalyticsData(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(launches) != 100 || len(items) != 100 {
		t.Errorf("got %d launches, %d item lists, want 100 each", len(launches), len(items))
	}
}
