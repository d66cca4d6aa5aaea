package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/forensix/log-inspector/internal/domain"
)

// Extraction is tolerant and order-independent: fields may appear anywhere
// in the line, unrecognized tokens are ignored, and when a field token
// appears more than once the first match wins. The timestamp is the only
// required field; a line without a parseable ts: token is rejected.
//
// Supported tokens:
//
//	ts:<digits> or [ts:<digits>]  epoch seconds, required
//	EVNT:<ident>                  event type, alphanumeric/hyphen
//	usr:<ident>                   username
//	IP:<a.b.c.d> or bare a.b.c.d  IPv4, octets 0-255
//	=>/<path>                     file path, marker stripped, no whitespace
//	pid<digits> or pid:<digits>   process id

var (
	tsPattern    = regexp.MustCompile(`\[?\bts:([^\s\]]*)\]?`)
	eventPattern = regexp.MustCompile(`\bEVNT:([A-Za-z0-9][A-Za-z0-9-]*)`)
	userPattern  = regexp.MustCompile(`\busr:([A-Za-z0-9_]+)`)
	ipPattern    = regexp.MustCompile(`\b(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\b`)
	pathPattern  = regexp.MustCompile(`=>(/\S+)`)
	pidPattern   = regexp.MustCompile(`\bpid:?(\d+)`)
)

// recognizer is one pure named field matcher. Recognizers are composed
// left-to-right over the line; each either fills its field or leaves the
// record untouched. Order fixes which field is attempted first but has no
// semantic effect since every recognizer targets its own field.
type recognizer struct {
	name  string
	apply func(line string, rec *domain.LogRecord)
}

var recognizers = []recognizer{
	{name: "event_type", apply: matchEventType},
	{name: "username", apply: matchUsername},
	{name: "ip_address", apply: matchIPAddress},
	{name: "file_path", apply: matchFilePath},
	{name: "process_id", apply: matchProcessID},
}

// Extract parses one raw line into a record or a failure. Pure function of
// its input: no shared state, no side effects.
func Extract(raw domain.RawLine) (*domain.LogRecord, *domain.ParseFailure) {
	ts, reason := matchTimestamp(raw.Text)
	if reason != "" {
		return nil, &domain.ParseFailure{SourceLine: raw.Number, Reason: reason}
	}

	rec := &domain.LogRecord{
		Timestamp:    ts,
		SourceLine:   raw.Number,
		SourceFormat: raw.Format,
	}

	for _, r := range recognizers {
		r.apply(raw.Text, rec)
	}

	return rec, nil
}

// matchTimestamp finds the first ts: token and parses its value.
// Returns a non-empty reason when the line must be rejected.
func matchTimestamp(line string) (int64, domain.FailureReason) {
	m := tsPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, domain.MissingTimestamp
	}

	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || ts < 0 {
		return 0, domain.MalformedTimestamp
	}

	return ts, ""
}

func matchEventType(line string, rec *domain.LogRecord) {
	if m := eventPattern.FindStringSubmatch(line); m != nil {
		rec.EventType = &m[1]
	}
}

func matchUsername(line string, rec *domain.LogRecord) {
	if m := userPattern.FindStringSubmatch(line); m != nil {
		rec.Username = &m[1]
	}
}

// matchIPAddress takes the first dotted-quad whose octets are all in range.
// Out-of-range candidates (e.g. 999.1.1.1) are skipped as "not an IP", not
// reported as errors.
func matchIPAddress(line string, rec *domain.LogRecord) {
	for _, m := range ipPattern.FindAllStringSubmatch(line, -1) {
		if validOctets(m[1]) {
			rec.IPAddress = &m[1]
			return
		}
	}
}

func validOctets(ip string) bool {
	for _, part := range strings.Split(ip, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// matchFilePath strips the => marker and stores the path with its leading
// slash.
func matchFilePath(line string, rec *domain.LogRecord) {
	if m := pathPattern.FindStringSubmatch(line); m != nil {
		rec.FilePath = &m[1]
	}
}

func matchProcessID(line string, rec *domain.LogRecord) {
	if m := pidPattern.FindStringSubmatch(line); m != nil {
		pid, err := strconv.Atoi(m[1])
		if err != nil {
			return
		}
		rec.ProcessID = &pid
	}
}
