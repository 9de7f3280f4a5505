package receiver

// Status is the receiver lifecycle state.
// Values match the codes the capture add-on shared across processes.
type Status int32

const (
	StatusIdle     Status = 0
	StatusRunning  Status = 1
	StatusStopping Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusRunning:
		return "RUNNING"
	case StatusStopping:
		return "STOPPING"
	default:
		return "UNKNOWN"
	}
}
