package diag

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic; higher is worse.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity reads a severity name in any case; "warn" is accepted.
func ParseSeverity(name string) (Severity, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "WARN" {
		return SevWarning, nil
	}
	for i, n := range severityNames {
		if n == key {
			return Severity(i), nil
		}
	}
	return SevInfo, fmt.Errorf("unknown severity %q (expected info|warning|error)", name)
}
