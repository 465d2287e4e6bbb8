package models

// Role is fixed at registration. There is no role-switch path, so every
// decision point can switch exhaustively over the two values.
type Role string

const (
	RoleTutor   Role = "tutor"
	RoleLearner Role = "learner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTutor, RoleLearner:
		return true
	}
	return false
}
