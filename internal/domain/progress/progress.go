// Package progress defines the advisory progress state of a multi-chunk
// generation session.
package progress

// Status is the lifecycle state of a generation session.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusInitializing Status = "initializing"
	StatusProcessing   Status = "processing"
	StatusComplete     Status = "complete"
	StatusFailed       Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusInitializing, StatusProcessing, StatusComplete, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether pollers can stop watching a session.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Progress is the step counter of one session.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Status  Status `json:"status"`
}

// Idle is what an unknown session reports.
func Idle() Progress {
	return Progress{Current: 0, Total: 0, Status: StatusIdle}
}

// Normalize enforces 0 <= Current <= Total and fills an empty status.
func (p Progress) Normalize() Progress {
	if p.Total < 0 {
		p.Total = 0
	}
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Current > p.Total {
		p.Current = p.Total
	}
	if p.Status == "" {
		p.Status = StatusProcessing
	}
	return p
}

// Fraction returns completion in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total)
}
