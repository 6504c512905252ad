package domain

// Status is the protection state derived from a session's dose history.
type Status string

const (
	// StatusInactive means no session events exist.
	StatusInactive Status = "inactive"
	// StatusLoading means the first dose was taken but protection has not
	// started yet.
	StatusLoading Status = "loading"
	// StatusEffective means protection is active.
	StatusEffective Status = "effective"
	// StatusMissed means the dose window closed without a new dose while
	// the session is still active.
	StatusMissed Status = "missed"
	// StatusLapsed means a gap between doses exceeded the lapse threshold.
	// Terminal until a new session is started.
	StatusLapsed Status = "lapsed"
	// StatusEnded means the session was stopped by the user. Distinct from
	// StatusMissed and never merged into it.
	StatusEnded Status = "ended"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status can only change by starting a new
// session.
func (s Status) IsTerminal() bool {
	return s == StatusLapsed || s == StatusEnded
}
