package stream

// State is the connection lifecycle state.
//
// Transitions: Idle → Connecting → Open ⇄ Erroring, and any state → Closed
// via Disconnect. The transport owns reconnection, so Erroring can move back
// to Open without any action from this package.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateErroring
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateErroring:
		return "erroring"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
