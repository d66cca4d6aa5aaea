package geo

import (
	"sort"

	"github.com/forensix/log-inspector/internal/domain"
)

// Location is the result of one IP lookup. Found distinguishes a resolved
// location from a lookup that returned nothing usable.
type Location struct {
	IP        string  `json:"ip"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Found     bool    `json:"found"`
}

// DistinctIPs is the handoff to the geolocation collaborator: the distinct
// set of extracted IP addresses, sorted for deterministic output. The
// analysis core itself never performs network calls.
func DistinctIPs(records []domain.LogRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.IPAddress != nil {
			seen[*r.IPAddress] = struct{}{}
		}
	}

	ips := make([]string, 0, len(seen))
	for ip := range seen {
		ips = append(ips, ip)
	}
	sort.Strings(ips)
	return ips
}
