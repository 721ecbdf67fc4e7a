package rp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New("", "token"); err == nil {
		t.Fatal("expected error for empty baseURL")
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "secret-token")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Project("demo").Launches().Get(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
}

func TestGetLaunch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/demo/launch/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": 42,
			"name": "nightly",
			"status": "FAILED",
			"startTime": 1750000000000,
			"statistics": {"executions": {"total": 10, "passed": 7, "failed": 3}}
		}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	launch, err := client.Project("demo").Launches().Get(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if launch.Name != "nightly" || launch.Status != "FAILED" {
		t.Errorf("launch = %+v", launch)
	}
	if got := launch.Statistics.Executions[ExecFailed]; got != 3 {
		t.Errorf("failed executions = %d, want 3", got)
	}
	want := time.UnixMilli(1750000000000)
	if !launch.StartTime.Time().Equal(want) {
		t.Errorf("startTime = %v, want %v", launch.StartTime.Time(), want)
	}
}

func TestListLaunchesFilters(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{"content": [{"id": 1, "name": "smoke"}], "page": {"totalElements": 1}}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	paged, err := client.Project("demo").Launches().List(context.Background(),
		WithAttributes("component:acm,release:2.12"),
		WithSort("startTime,desc"),
		WithPageSize(50),
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(paged.Content) != 1 || paged.Content[0].Name != "smoke" {
		t.Errorf("content = %+v", paged.Content)
	}

	wantQuery := map[string]string{
		"filter.has.compositeAttribute": "component:acm,release:2.12",
		"page.sort":                     "startTime,desc",
		"page.size":                     "50",
	}
	if diff := cmp.Diff(wantQuery, gotQuery); diff != "" {
		t.Errorf("query params mismatch (-want +got):\n%s", diff)
	}
}

func TestWithAttributesEmptyFilterOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("filter.has.compositeAttribute") {
			t.Error("empty attribute filter should not set query param")
		}
		w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Project("demo").Launches().List(context.Background(), WithAttributes("  ")); err != nil {
		t.Fatal(err)
	}
}

func TestListAllPaginates(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page.page")
		pages = append(pages, page)
		if page == "1" {
			// Full page forces a second request.
			w.Write([]byte(fullLaunchPage(100)))
			return
		}
		w.Write([]byte(`{"content": [{"id": 999, "name": "last"}]}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	all, err := client.Project("demo").Launches().ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 101 {
		t.Errorf("len(all) = %d, want 101", len(all))
	}
	if diff := cmp.Diff([]string{"1", "2"}, pages); diff != "" {
		t.Errorf("pages requested (-want +got):\n%s", diff)
	}
}

func TestListItemsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/demo/item" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("filter.eq.launchId") != "7" || q.Get("filter.eq.type") != "STEP" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"content": [
			{"id": 1, "name": "test_login", "status": "FAILED", "startTime": 1750000000000, "endTime": 1750000002500}
		]}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	paged, err := client.Project("demo").Items().List(context.Background(),
		WithLaunchID(7),
		WithItemType("STEP"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(paged.Content) != 1 {
		t.Fatalf("len(content) = %d, want 1", len(paged.Content))
	}
	if got := paged.Content[0].Duration(); got != 2500 {
		t.Errorf("Duration() = %d, want 2500", got)
	}
}

func TestAPIErrorPredicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorCode": 4041, "message": "Launch '42' not found"}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Project("demo").Launches().Get(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
	if IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = true, want false", err)
	}
	if !HasStatusCode(err, http.StatusNotFound) {
		t.Errorf("HasStatusCode 404 = false")
	}
}

func TestAPIErrorNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "token")
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Project("demo").Launches().Get(context.Background(), 1)
	if !HasStatusCode(err, http.StatusBadGateway) {
		t.Fatalf("HasStatusCode 502 = false, err = %v", err)
	}
}

func TestLaunchURL(t *testing.T) {
	client, err := New("https://rp.example.com/", "token")
	if err != nil {
		t.Fatal(err)
	}
	got := client.Project("demo").LaunchURL(42)
	want := "https://rp.example.com/ui/#demo/launches/all/42"
	if got != want {
		t.Errorf("LaunchURL = %q, want %q", got, want)
	}
}

func fullLaunchPage(n int) string {
	var b strings.Builder
	b.WriteString(`{"content": [`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id": %d, "name": "launch-%d"}`, i+1, i+1)
	}
	b.WriteString(`]}`)
	return b.String()
}

func TestEpochMillisMicrosecondDetection(t *testing.T) {
	var e EpochMillis
	if err := e.UnmarshalJSON([]byte("1750000000000000")); err != nil {
		t.Fatal(err)
	}
	want := time.UnixMicro(1750000000000000)
	if !e.Time().Equal(want) {
		t.Errorf("Time() = %v, want %v", e.Time(), want)
	}
}
