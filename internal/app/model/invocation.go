package model

import "time"

// InvocationRecord is one terminal relay outcome as kept in history.
type InvocationRecord struct {
	ID          int64     `json:"id"`
	Endpoint    string    `json:"endpoint"`
	Outcome     string    `json:"outcome"`
	Status      int       `json:"status"`
	ExitCode    int       `json:"exitCode"`
	DurationMs  int64     `json:"durationMs"`
	ErrorDetail string    `json:"errorDetail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Succeeded reports whether the invocation produced a payload.
func (r InvocationRecord) Succeeded() bool {
	return r.Outcome == "success"
}
