package services

// Metrics receives protocol events. The Prometheus implementation lives in
// the metrics package.
type Metrics interface {
	ChallengeIssued()
	SubmissionObserved(outcome Outcome, reason string)
	RegistrationObserved(reason string)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) ChallengeIssued()                   {}
func (NopMetrics) SubmissionObserved(Outcome, string) {}
func (NopMetrics) RegistrationObserved(string)        {}
