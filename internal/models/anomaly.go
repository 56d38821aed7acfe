package models

// Severity classifies a data-quality finding.
type Severity string

const (
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Anomaly is one classified data-quality finding. Critical anomalies halt
// the pipeline before any content is created; warnings ride along to the
// oversight notification.
type Anomaly struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (a Anomaly) String() string {
	return string(a.Severity) + ": " + a.Message
}

// Criticals filters a finding list down to the halting ones.
func Criticals(anomalies []Anomaly) []Anomaly {
	var out []Anomaly
	for _, a := range anomalies {
		if a.Severity == SeverityCritical {
			out = append(out, a)
		}
	}
	return out
}

// WarningStrings renders every finding for the run record's warnings field.
func WarningStrings(anomalies []Anomaly) []string {
	out := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, a.String())
	}
	return out
}
