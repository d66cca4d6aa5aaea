package domain

// DefaultBucketWidth is the fixed bucket width in seconds used when the
// caller does not override it.
const DefaultBucketWidth int64 = 10

// TimeBucket is one fixed-width time window covering
// [StartEpoch, StartEpoch+WidthSeconds). Buckets are derived wholesale from
// the record set and never mutated in place; a changed record set means a
// full recompute.
type TimeBucket struct {
	StartEpoch   int64       `json:"start_epoch"`
	WidthSeconds int64       `json:"width_seconds"`
	Count        int         `json:"count"`
	Records      []LogRecord `json:"records,omitempty"`
}

// DistinctUsers returns the number of distinct usernames among the bucket's
// records, counting present values only.
func (b *TimeBucket) DistinctUsers() int {
	seen := make(map[string]struct{})
	for _, r := range b.Records {
		if r.Username != nil {
			seen[*r.Username] = struct{}{}
		}
	}
	return len(seen)
}

// DistinctIPs returns the number of distinct IP addresses among the bucket's
// records, counting present values only.
func (b *TimeBucket) DistinctIPs() int {
	seen := make(map[string]struct{})
	for _, r := range b.Records {
		if r.IPAddress != nil {
			seen[*r.IPAddress] = struct{}{}
		}
	}
	return len(seen)
}
