package user

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/visualminds/core"
)

// Roles
const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN" // teacher
)

// Class levels
const (
	Class3 ClassLevel = "3"
	Class4 ClassLevel = "4"
	Class5 ClassLevel = "5"
)

// DefaultAvatar is given to every newly registered student.
const DefaultAvatar = "😊"

var (
	AllRoles       = []Role{RoleStudent, RoleAdmin}
	AllClassLevels = []ClassLevel{Class3, Class4, Class5}
)

type (
	Role       string
	ClassLevel string
)

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// ParseRole accepts a role name in any case; "teacher" is an alias of ADMIN.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(core.CleanString(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleAdmin, "TEACHER":
		return RoleAdmin, true
	}
	return "", false
}

func (cl ClassLevel) IsValid() bool {
	for _, c := range AllClassLevels {
		if cl == c {
			return true
		}
	}
	return false
}

// Progress holds the videos a student watched and their best score per quiz.
type Progress struct {
	WatchedVideos []string       `json:"watchedVideos"`
	QuizScores    map[string]int `json:"quizScores"`
}

func NewProgress() Progress {
	return Progress{WatchedVideos: []string{}, QuizScores: map[string]int{}}
}

// HasWatched reports whether videoID was already recorded.
func (p Progress) HasWatched(videoID string) bool {
	for _, id := range p.WatchedVideos {
		if id == videoID {
			return true
		}
	}
	return false
}

// Watch records videoID once; it reports whether the progress changed.
func (p *Progress) Watch(videoID string) bool {
	if videoID == "" || p.HasWatched(videoID) {
		return false
	}
	p.WatchedVideos = append(p.WatchedVideos, videoID)
	return true
}

// Score returns the best percentage achieved on quizID, if any.
func (p Progress) Score(quizID string) (int, bool) {
	score, ok := p.QuizScores[quizID]
	return score, ok
}

// RecordScore keeps the best of the stored and given percentage for quizID.
// Scores never decrease; it reports whether the progress changed.
func (p *Progress) RecordScore(quizID string, score int) bool {
	if p.QuizScores == nil {
		p.QuizScores = make(map[string]int)
	}
	best := p.QuizScores[quizID] // 0 when never scored
	if score < best {
		score = best
	}
	if old, ok := p.QuizScores[quizID]; ok && old == score {
		return false
	}
	p.QuizScores[quizID] = score
	return true
}

func (p Progress) Clone() Progress {
	clone := Progress{
		WatchedVideos: make([]string, len(p.WatchedVideos)),
		QuizScores:    make(map[string]int, len(p.QuizScores)),
	}
	copy(clone.WatchedVideos, p.WatchedVideos)
	for k, v := range p.QuizScores {
		clone.QuizScores[k] = v
	}
	return clone
}

type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          Role       `json:"role"`
	Avatar        string     `json:"avatar,omitempty"`
	SelectedClass ClassLevel `json:"selectedClass,omitempty"`
	Progress      Progress   `json:"progress"`
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// HasClass reports whether a class level was selected.
func (u User) HasClass() bool { return u.SelectedClass != "" }

// HasAvatarImage reports whether the avatar is an image reference rather than an emoji glyph.
func (u User) HasAvatarImage() bool {
	return strings.HasPrefix(u.Avatar, "data:") || strings.HasPrefix(u.Avatar, "http")
}

// Matches reports whether the user is the account for this email (case-insensitive) and role.
func (u User) Matches(email string, role Role) bool {
	return u.Role == role && strings.EqualFold(core.CleanString(u.Email), core.CleanString(email))
}

// Clone returns a deep copy, so callers cannot alias the store's progress.
func (u User) Clone() User {
	u.Progress = u.Progress.Clone()
	return u
}

// NewUser contains information needed to register a new student.
type NewUser struct {
	Name  string `json:"name" validate:"required,notblank,max=80"`
	Email string `json:"email" validate:"required,email"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// UpdateProfile defines what information a user may change about themselves.
type UpdateProfile struct {
	Name   string `json:"name" validate:"required,notblank,max=80"`
	Avatar string `json:"avatar" validate:"omitempty,avatar"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.Avatar = core.CleanString(up.Avatar)
	return validate.Struct(up)
}

// SelectClass is the class level a student wants to study.
type SelectClass struct {
	ClassLevel ClassLevel `json:"classLevel" validate:"required,classlevel"`
}

func (sc *SelectClass) Validate(validate *validator.Validate) error {
	sc.ClassLevel = ClassLevel(core.CleanString(string(sc.ClassLevel)))
	return validate.Struct(sc)
}
