package diag

import "strings"

// Severity orders diagnostics; anything at SevError or above fails a run.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case form used by one-line output.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}
