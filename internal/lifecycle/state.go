package lifecycle

import (
	"task-marketplace-api/internal/models"
)

// State is the lifecycle position of a task, derived from its row.
type State string

const (
	StateOpen              State = "open"
	StateAssigned          State = "assigned"
	StatePartiallyVerified State = "partially_verified"
	StateCompleted         State = "completed"
)

// StateOf derives the state of t.
func StateOf(t models.Task) State {
	switch {
	case t.Status == models.StatusCompleted:
		return StateCompleted
	case !t.HasDoer():
		return StateOpen
	case t.IsRequestorVerified || t.IsDoerVerified:
		return StatePartiallyVerified
	default:
		return StateAssigned
	}
}

// Role is a party's position on a task.
type Role string

const (
	RoleRequestor Role = "requestor"
	RoleDoer      Role = "doer"
)

// RoleOf resolves userID's role on t.
func RoleOf(t models.Task, userID string) (Role, bool) {
	switch {
	case userID == "":
		return "", false
	case t.CreatorID == userID:
		return RoleRequestor, true
	case t.IsDoer(userID):
		return RoleDoer, true
	}
	return "", false
}

// ownCode is the code shown to the party in role; they read it out to the counterpart.
func ownCode(t models.Task, role Role) string {
	var code *string
	if role == RoleRequestor {
		code = t.RequestorVerificationCode
	} else {
		code = t.DoerVerificationCode
	}
	if code == nil {
		return ""
	}
	return *code
}

// expectedCode is the code a party in role must enter: the one assigned to the counterpart.
func expectedCode(t models.Task, role Role) string {
	if role == RoleRequestor {
		return ownCode(t, RoleDoer)
	}
	return ownCode(t, RoleRequestor)
}

func verifiedColumn(role Role) string {
	if role == RoleRequestor {
		return "is_requestor_verified"
	}
	return "is_doer_verified"
}

func isVerified(t models.Task, role Role) bool {
	if role == RoleRequestor {
		return t.IsRequestorVerified
	}
	return t.IsDoerVerified
}

// counterpart returns the other party's user id.
func counterpart(t models.Task, role Role) string {
	if role == RoleRequestor {
		if t.HasDoer() {
			return *t.DoerID
		}
		return ""
	}
	return t.CreatorID
}
