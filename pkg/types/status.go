package types

// Status is the lifecycle state of one store command.
type Status string

// Command states. Every command moves idle → loading → success or error.
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Settled reports whether s is a terminal state.
func (s Status) Settled() bool {
	return s == StatusSuccess || s == StatusError
}

func (s Status) String() string {
	return string(s)
}
