package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/forensix/log-inspector/internal/domain"
)

func strptr(s string) *string { return &s }

func TestDistinctIPs(t *testing.T) {
	records := []domain.LogRecord{
		{Timestamp: 1, IPAddress: strptr("10.0.0.2")},
		{Timestamp: 2, IPAddress: strptr("10.0.0.1")},
		{Timestamp: 3, IPAddress: strptr("10.0.0.2")},
		{Timestamp: 4}, // absent IP must not contribute
	}

	ips := DistinctIPs(records)

	want := []string{"10.0.0.1", "10.0.0.2"}
	if len(ips) != len(want) {
		t.Fatalf("expected %v, got %v", want, ips)
	}
	for i := range want {
		if ips[i] != want[i] {
			t.Fatalf("expected sorted distinct IPs %v, got %v", want, ips)
		}
	}
}

func TestBoltCache_RoundTrip(t *testing.T) {
	cache, err := NewBoltCache(filepath.Join(t.TempDir(), "geo.db"))
	if err != nil {
		t.Fatalf("NewBoltCache() error = %v", err)
	}
	defer cache.Close()

	if _, ok, err := cache.Get("1.2.3.4"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%t err=%v", ok, err)
	}

	loc := &Location{
		IP:        "1.2.3.4",
		Latitude:  52.52,
		Longitude: 13.405,
		City:      "Berlin",
		Country:   "DE",
		Found:     true,
	}
	if err := cache.Put(loc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := cache.Get("1.2.3.4")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if *got != *loc {
		t.Errorf("cached location mismatch:\ngot  %+v\nwant %+v", got, loc)
	}
}

func TestClient_Lookup(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"city":"Berlin","country":"DE","loc":"52.5200,13.4050"}`)
	}))
	defer srv.Close()

	cache, err := NewBoltCache(filepath.Join(t.TempDir(), "geo.db"))
	if err != nil {
		t.Fatalf("NewBoltCache() error = %v", err)
	}
	defer cache.Close()

	client := NewClient(cache)
	client.baseURL = srv.URL

	loc, err := client.Lookup(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !loc.Found || loc.City != "Berlin" || loc.Latitude != 52.52 {
		t.Errorf("unexpected location: %+v", loc)
	}

	// Second lookup must be served from cache.
	if _, err := client.Lookup(context.Background(), "1.2.3.4"); err != nil {
		t.Fatalf("cached Lookup() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("expected 1 upstream request, got %d", requests)
	}
}

func TestClient_LookupAll_PartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/1.2.3.4/json" {
			fmt.Fprint(w, `{"city":"Berlin","country":"DE","loc":"52.52,13.40"}`)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(nil)
	client.baseURL = srv.URL

	locations := client.LookupAll(context.Background(), []string{"1.2.3.4", "5.6.7.8"})

	if len(locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locations))
	}
	if !locations[0].Found {
		t.Errorf("expected first lookup resolved: %+v", locations[0])
	}
	if locations[1].Found {
		t.Errorf("expected second lookup unresolved: %+v", locations[1])
	}
}

func TestParseLoc(t *testing.T) {
	if _, _, ok := parseLoc("garbage"); ok {
		t.Error("expected parse failure for malformed loc")
	}
	lat, lon, ok := parseLoc("1.5,-2.25")
	if !ok || lat != 1.5 || lon != -2.25 {
		t.Errorf("unexpected parse result: %g %g %t", lat, lon, ok)
	}
}
