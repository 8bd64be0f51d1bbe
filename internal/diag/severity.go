package diag

// Severity defines the importance of a diagnostic. Values are totally ordered:
// SevInfo < SevWarning < SevError.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lower-case form used in rendered output ("error[H001]").
func (s Severity) Label() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity accepts "info", "warning" or "error" in any case.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "info", "INFO", "Info":
		return SevInfo, true
	case "warning", "WARNING", "Warning", "warn":
		return SevWarning, true
	case "error", "ERROR", "Error":
		return SevError, true
	}
	return SevInfo, false
}
