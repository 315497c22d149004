package session

// State tags what a request holds in place of session data.
type State int

const (
	// StateAbsent means no session semantics apply to the request.
	StateAbsent State = iota
	// StateEmpty is a session that exists but holds no values.
	StateEmpty
	// StatePopulated is a session holding at least one value.
	StatePopulated
	// StateDeleted is a session removed by the handler.
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateDeleted:
		return "deleted"
	default:
		return "absent"
	}
}
