package analyzer

// Config selects rules and supplies defaults the tune may omit.
type Config struct {
	// Disable lists default rules to skip.
	Disable []string `toml:"disable" yaml:"disable" json:"disable,omitempty"`
	// Enable lists opt-in rules to run.
	Enable []string `toml:"enable" yaml:"enable" json:"enable,omitempty"`
	// MeterDefault is used when the header has no M: field. Empty means 4/4.
	MeterDefault string `toml:"meter_default" yaml:"meter_default" json:"meter_default,omitempty"`
}

// DefaultConfig runs the default rule set with a 4/4 fallback meter.
func DefaultConfig() Config {
	return Config{MeterDefault: "4/4"}
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
