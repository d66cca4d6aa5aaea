package collect

import (
	"github.com/rs/zerolog/log"

	"github.com/forensix/log-inspector/internal/domain"
	"github.com/forensix/log-inspector/internal/extract"
)

// Summary exposes the headline counts for one parse pass. Distinct counts
// are set cardinalities over present-only values, so an absent username
// never inflates DistinctUsers.
type Summary struct {
	TotalLines     int `json:"total_lines"`
	Records        int `json:"records"`
	Failures       int `json:"failures"`
	DistinctUsers  int `json:"distinct_users"`
	DistinctEvents int `json:"distinct_events"`
	DistinctIPs    int `json:"distinct_ips"`
}

// Collect runs the extractor over every line independently. Lines are
// processed in order and successes keep their original ordering; a failed
// line never stops the batch, its failure is collected instead.
func Collect(lines []domain.RawLine) ([]domain.LogRecord, []domain.ParseFailure) {
	records := make([]domain.LogRecord, 0, len(lines))
	var failures []domain.ParseFailure

	for _, line := range lines {
		rec, fail := extract.Extract(line)
		if fail != nil {
			failures = append(failures, *fail)
			continue
		}
		records = append(records, *rec)
	}

	log.Debug().
		Int("lines", len(lines)).
		Int("records", len(records)).
		Int("failures", len(failures)).
		Msg("Collected records")

	return records, failures
}

// Summarize computes the summary counts for a collected record set.
func Summarize(records []domain.LogRecord, failures []domain.ParseFailure) Summary {
	users := make(map[string]struct{})
	events := make(map[string]struct{})
	ips := make(map[string]struct{})

	for _, r := range records {
		if r.Username != nil {
			users[*r.Username] = struct{}{}
		}
		if r.EventType != nil {
			events[*r.EventType] = struct{}{}
		}
		if r.IPAddress != nil {
			ips[*r.IPAddress] = struct{}{}
		}
	}

	return Summary{
		TotalLines:     len(records) + len(failures),
		Records:        len(records),
		Failures:       len(failures),
		DistinctUsers:  len(users),
		DistinctEvents: len(events),
		DistinctIPs:    len(ips),
	}
}
