package portal

import "github.com/trezcool/visualminds/core/user"

// Stage is where a session stands in the portal flow.
type Stage string

// Stages
const (
	StageLoggedOut   Stage = "logged_out"
	StageSelectClass Stage = "select_class" // student who has not picked a class yet
	StageStudent     Stage = "student"
	StageAdmin       Stage = "admin"
)

// Session is either logged out or logged in as exactly one user.
// The zero value is logged out.
type Session struct {
	user *user.User
}

func LoggedOut() Session { return Session{} }

func LoggedIn(usr user.User) Session {
	usr = usr.Clone()
	return Session{user: &usr}
}

func (s Session) IsLoggedIn() bool { return s.user != nil }

// User returns the logged in user, if any.
func (s Session) User() (user.User, bool) {
	if s.user == nil {
		return user.User{}, false
	}
	return s.user.Clone(), true
}

func (s Session) Stage() Stage {
	switch {
	case s.user == nil:
		return StageLoggedOut
	case s.user.IsAdmin():
		return StageAdmin
	case !s.user.HasClass():
		return StageSelectClass
	default:
		return StageStudent
	}
}
