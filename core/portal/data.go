package portal

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core/content"
	"github.com/trezcool/visualminds/core/user"
)

// seeded admin account
const (
	AdminID    = "admin-1"
	AdminName  = "Super Admin"
	AdminEmail = "admin@visualminds.com"
)

// appData is the document persisted under the store key.
type appData struct {
	Users       []user.User       `json:"users"`
	Videos      []content.Video   `json:"videos"`
	MindMaps    []content.MindMap `json:"mindMaps"`
	Quizzes     []content.Quiz    `json:"quizzes"`
	CurrentUser *user.User        `json:"currentUser"`
}

func seedAdmin() user.User {
	return user.User{
		ID:       AdminID,
		Name:     AdminName,
		Email:    AdminEmail,
		Role:     user.RoleAdmin,
		Progress: user.NewProgress(),
	}
}

func seedData() appData {
	return appData{
		Users:    []user.User{seedAdmin()},
		Videos:   []content.Video{},
		MindMaps: []content.MindMap{},
		Quizzes:  []content.Quiz{},
	}
}

// decodeData parses a stored document, filling in what older or hand-edited documents lack.
func decodeData(raw []byte) (appData, error) {
	var data appData
	if err := json.Unmarshal(raw, &data); err != nil {
		return appData{}, errors.Wrap(err, "decoding stored data")
	}
	if len(data.Users) == 0 {
		data.Users = []user.User{seedAdmin()}
	}

	seen := make(map[string]struct{}, len(data.Users))
	users := data.Users[:0]
	for _, usr := range data.Users {
		if usr.ID == "" || !usr.Role.IsValid() {
			continue
		}
		if _, dup := seen[usr.ID]; dup {
			continue
		}
		seen[usr.ID] = struct{}{}
		if usr.Progress.WatchedVideos == nil {
			usr.Progress.WatchedVideos = []string{}
		}
		if usr.Progress.QuizScores == nil {
			usr.Progress.QuizScores = map[string]int{}
		}
		users = append(users, usr)
	}
	if len(users) == 0 {
		return appData{}, errors.New("decoding stored data: no valid user")
	}
	data.Users = users

	if data.Videos == nil {
		data.Videos = []content.Video{}
	}
	if data.MindMaps == nil {
		data.MindMaps = []content.MindMap{}
	}
	if data.Quizzes == nil {
		data.Quizzes = []content.Quiz{}
	}
	return data, nil
}
