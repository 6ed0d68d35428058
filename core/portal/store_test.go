package portal_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/content"
	"github.com/trezcool/visualminds/core/portal"
	"github.com/trezcool/visualminds/core/user"
	logsvc "github.com/trezcool/visualminds/services/logger"
	testutil "github.com/trezcool/visualminds/tests"
)

var ctx = context.Background()

func storedDoc(t *testing.T, kv core.KVStore) map[string]json.RawMessage {
	t.Helper()
	raw, err := kv.Get(ctx, portal.DefaultKey)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestNewStore_seed(t *testing.T) {
	kv := testutil.NewFlakyKV()
	store := testutil.NewStore(t, kv)

	users := store.Users()
	require.Len(t, users, 1)
	assert.Equal(t, portal.AdminID, users[0].ID)
	assert.Equal(t, user.RoleAdmin, users[0].Role)
	assert.Empty(t, store.Videos())
	assert.Empty(t, store.MindMaps())
	assert.Empty(t, store.Quizzes())
	assert.Equal(t, portal.StageLoggedOut, store.Session().Stage())

	doc := storedDoc(t, kv)
	assert.Equal(t, "null", string(doc["currentUser"]))
	assert.JSONEq(t, "[]", string(doc["videos"]))
}

func TestNewStore_unreadable(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "{users: oops"},
		{name: "wrong shape", doc: `{"users": "everyone"}`},
		{name: "no valid user", doc: `{"users": [{"id": "", "role": "STUDENT"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := testutil.NewFlakyKV()
			require.NoError(t, kv.Set(ctx, portal.DefaultKey, []byte(tt.doc)))

			store := testutil.NewStore(t, kv)
			users := store.Users()
			require.Len(t, users, 1)
			assert.Equal(t, portal.AdminEmail, users[0].Email)
			assert.False(t, store.Session().IsLoggedIn())
		})
	}
}

func TestNewStore_reload(t *testing.T) {
	kv := testutil.NewFlakyKV()
	store := testutil.NewStore(t, kv)
	kid := testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", user.Class4)
	vid := testutil.AddVideo(t, store, "c4-1", "Monkeys")
	store.UpdateProgress(ctx, vid.ID, nil)

	// the previous session was logged in; a cold load never is
	reloaded := testutil.NewStore(t, kv)
	assert.Equal(t, portal.StageLoggedOut, reloaded.Session().Stage())
	assert.Equal(t, store.Users(), reloaded.Users())
	assert.Equal(t, store.Videos(), reloaded.Videos())

	require.True(t, reloaded.Login(ctx, "KID@fun.com", user.RoleStudent))
	usr, ok := reloaded.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, kid.ID, usr.ID)
	assert.Equal(t, []string{vid.ID}, usr.Progress.WatchedVideos)
	assert.Equal(t, portal.StageStudent, reloaded.Session().Stage())
}

func TestNewStore_customKey(t *testing.T) {
	kv := testutil.NewFlakyKV()
	testutil.NewStore(t, kv, portal.WithKey("other"))

	_, err := kv.Get(ctx, "other")
	assert.NoError(t, err)
	_, err = kv.Get(ctx, portal.DefaultKey)
	assert.Equal(t, core.ErrKeyNotFound, err)
}

func TestStore_Login(t *testing.T) {
	store := testutil.NewStore(t, nil)
	testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", "")
	store.Logout(ctx)

	tests := []struct {
		name      string
		email     string
		role      user.Role
		want      bool
		wantStage portal.Stage
	}{
		{"admin", "admin@visualminds.com", user.RoleAdmin, true, portal.StageAdmin},
		{"admin any case", " Admin@VisualMinds.com ", user.RoleAdmin, true, portal.StageAdmin},
		{"admin as student", "admin@visualminds.com", user.RoleStudent, false, portal.StageLoggedOut},
		{"student", "kid@fun.com", user.RoleStudent, true, portal.StageSelectClass},
		{"student as admin", "kid@fun.com", user.RoleAdmin, false, portal.StageLoggedOut},
		{"unknown", "who@fun.com", user.RoleStudent, false, portal.StageLoggedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.Logout(ctx)
			assert.Equal(t, tt.want, store.Login(ctx, tt.email, tt.role))
			assert.Equal(t, tt.wantStage, store.Session().Stage())
		})
	}
}

func TestStore_LoginFailureKeepsSession(t *testing.T) {
	store := testutil.NewStore(t, nil)
	testutil.LoginAdmin(t, store)

	assert.False(t, store.Login(ctx, "nobody@fun.com", user.RoleStudent))
	assert.Equal(t, portal.StageAdmin, store.Session().Stage())
}

func TestStore_Register(t *testing.T) {
	store := testutil.NewStore(t, nil)

	usr, err := store.Register(ctx, " Kid ", "Kid@Fun.com")
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "Kid", usr.Name)
	assert.Equal(t, "kid@fun.com", usr.Email)
	assert.Equal(t, user.RoleStudent, usr.Role)
	assert.Equal(t, user.DefaultAvatar, usr.Avatar)
	assert.Empty(t, usr.SelectedClass)
	assert.Empty(t, usr.Progress.WatchedVideos)
	assert.Empty(t, usr.Progress.QuizScores)
	assert.Equal(t, portal.StageSelectClass, store.Session().Stage())
	assert.Len(t, store.Users(), 2)

	t.Run("existing email logs in", func(t *testing.T) {
		store.Logout(ctx)
		again, err := store.Register(ctx, "Someone Else", "KID@fun.com")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, again.ID)
		assert.Equal(t, "Kid", again.Name)
		assert.Len(t, store.Users(), 2)

		current, ok := store.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, usr.ID, current.ID)
	})

	t.Run("admin email makes a new student", func(t *testing.T) {
		store.Logout(ctx)
		stu, err := store.Register(ctx, "Sneaky", portal.AdminEmail)
		require.NoError(t, err)
		assert.Equal(t, user.RoleStudent, stu.Role)
		assert.Len(t, store.Users(), 3)
	})

	t.Run("invalid", func(t *testing.T) {
		store.Logout(ctx)
		_, err := store.Register(ctx, "  ", "not-an-email")
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Len(t, vErr.Fields, 2)
		assert.False(t, store.Session().IsLoggedIn())
		assert.Len(t, store.Users(), 3)
	})
}

func TestStore_SetClass(t *testing.T) {
	store := testutil.NewStore(t, nil)

	// logged out: no-op
	assert.NoError(t, store.SetClass(ctx, user.Class3))

	kid := testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", "")
	require.NoError(t, store.SetClass(ctx, user.Class5))
	assert.Equal(t, portal.StageStudent, store.Session().Stage())

	current, _ := store.CurrentUser()
	assert.Equal(t, user.Class5, current.SelectedClass)
	assertConsistent(t, store, kid.ID)

	assert.Error(t, store.SetClass(ctx, "9"))
	current, _ = store.CurrentUser()
	assert.Equal(t, user.Class5, current.SelectedClass)
}

func TestStore_UpdateProfile(t *testing.T) {
	store := testutil.NewStore(t, nil)
	assert.NoError(t, store.UpdateProfile(ctx, "Ghost", "👻"))
	for _, usr := range store.Users() {
		assert.NotEqual(t, "Ghost", usr.Name)
	}

	kid := testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", user.Class3)
	require.NoError(t, store.UpdateProfile(ctx, "Super Kid", "🦁"))
	current, _ := store.CurrentUser()
	assert.Equal(t, "Super Kid", current.Name)
	assert.Equal(t, "🦁", current.Avatar)
	assertConsistent(t, store, kid.ID)

	err := store.UpdateProfile(ctx, "", "🦁")
	var vErr *core.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestStore_UpdateProgress(t *testing.T) {
	store := testutil.NewStore(t, nil)
	store.UpdateProgress(ctx, "v1", &portal.QuizResult{QuizID: "q1", Score: 50}) // logged out

	kid := testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", user.Class4)
	store.UpdateProgress(ctx, "v1", nil)
	store.UpdateProgress(ctx, "v1", nil)
	store.UpdateProgress(ctx, "", &portal.QuizResult{QuizID: "q1", Score: 67})
	store.UpdateProgress(ctx, "v2", &portal.QuizResult{QuizID: "q1", Score: 33})

	current, _ := store.CurrentUser()
	assert.Equal(t, []string{"v1", "v2"}, current.Progress.WatchedVideos)
	assert.Equal(t, map[string]int{"q1": 67}, current.Progress.QuizScores)
	assertConsistent(t, store, kid.ID)
}

func TestStore_SubmitQuiz(t *testing.T) {
	store := testutil.NewStore(t, nil)
	testutil.LoginAdmin(t, store)
	quiz := testutil.AddQuiz(t, store, "c4-1", "Monkeys", 1, 0, 2)
	store.Logout(ctx)

	_, err := store.SubmitQuiz(ctx, quiz.ID, content.Answers(1, 0, 2))
	assert.Equal(t, portal.ErrNotLoggedIn, err)

	kid := testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", user.Class4)

	tests := []struct {
		answers   []*int
		wantGrade content.Grade
		wantBest  int
	}{
		{content.Answers(1, 1, 2), content.Grade{Score: 2, Total: 3}, 67},
		{content.Answers(1, 0, 2), content.Grade{Score: 3, Total: 3}, 100},
		{content.Answers(0, 1, 0), content.Grade{Score: 0, Total: 3}, 100},
	}
	for _, tt := range tests {
		grade, err := store.SubmitQuiz(ctx, quiz.ID, tt.answers)
		require.NoError(t, err)
		assert.Equal(t, tt.wantGrade, grade)

		current, _ := store.CurrentUser()
		assert.Equal(t, tt.wantBest, current.Progress.QuizScores[quiz.ID])
	}
	assertConsistent(t, store, kid.ID)

	_, err = store.SubmitQuiz(ctx, "nope", content.Answers(0))
	assert.Equal(t, portal.ErrNotFound, err)
}

func TestStore_Content(t *testing.T) {
	store := testutil.NewStore(t, nil, portal.WithIDGenerator(sequence("id")))

	video := content.Video{ChapterID: "c4-1", Title: "Monkeys", URL: "https://youtu.be/abc"}
	added, err := store.AddContent(ctx, content.KindVideo, video)
	require.NoError(t, err)
	assert.Equal(t, "id1", added.ItemID())

	mm, err := store.AddContent(ctx, content.KindMindMap, content.MindMap{
		ChapterID: "c5-1", Title: "Work", URL: "https://img.test/work.png", Type: content.MapImage,
	})
	require.NoError(t, err)

	t.Run("edit keeps the id", func(t *testing.T) {
		edited, err := store.EditContent(ctx, content.KindVideo, added.ItemID(), content.Video{
			ID: "other", ChapterID: "c4-1", Title: "Clever Monkeys", URL: "https://youtu.be/abc",
		})
		require.NoError(t, err)
		assert.Equal(t, added.ItemID(), edited.ItemID())
		videos := store.Videos()
		require.Len(t, videos, 1)
		assert.Equal(t, "Clever Monkeys", videos[0].Title)
		assert.Equal(t, "id1", videos[0].ID)
	})

	t.Run("errors", func(t *testing.T) {
		var vErr *core.ValidationError

		_, err := store.AddContent(ctx, content.KindQuiz, video)
		assert.Equal(t, portal.ErrKindMismatch, err)

		_, err = store.AddContent(ctx, content.Kind(42), video)
		assert.Equal(t, portal.ErrUnknownKind, err)

		_, err = store.AddContent(ctx, content.KindVideo, content.Video{ChapterID: "c4-1"})
		assert.True(t, errors.As(err, &vErr))

		_, err = store.AddContent(ctx, content.KindVideo, video.WithID("id1"))
		assert.Equal(t, portal.ErrDuplicateID, err)

		_, err = store.EditContent(ctx, content.KindVideo, "missing", video)
		assert.Equal(t, portal.ErrNotFound, err)

		assert.Equal(t, portal.ErrNotFound, store.RemoveContent(ctx, content.KindMindMap, "missing"))
		assert.Equal(t, portal.ErrUnknownKind, store.RemoveContent(ctx, 0, "id1"))
		assert.Len(t, store.Videos(), 1)
		assert.Len(t, store.MindMaps(), 1)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.RemoveContent(ctx, content.KindMindMap, mm.ItemID()))
		assert.Empty(t, store.MindMaps())
		assert.Len(t, store.Videos(), 1)
	})

	t.Run("listing", func(t *testing.T) {
		items, err := store.Content(content.KindVideo)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, content.KindVideo, items[0].ItemKind())

		items, err = store.Content(content.KindQuiz)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})
}

func TestStore_ContentCopies(t *testing.T) {
	store := testutil.NewStore(t, nil)
	quiz := testutil.AddQuiz(t, store, "c3-1", "Numbers", 0)

	quizzes := store.Quizzes()
	quizzes[0].Questions[0].Options[0] = "changed"
	quizzes[0].Title = "changed"

	again := store.Quizzes()
	assert.Equal(t, quiz, again[0])
}

func TestStore_ClassContent(t *testing.T) {
	store := testutil.NewStore(t, nil)
	v4 := testutil.AddVideo(t, store, "c4-1", "Monkeys")
	testutil.AddVideo(t, store, "c5-1", "Labour")
	q3 := testutil.AddQuiz(t, store, "c3-1", "Numbers", 0)

	cat := store.ClassContent(user.Class4)
	require.Len(t, cat.Chapters, 1)
	assert.Equal(t, "c4-1", cat.Chapters[0].ID)
	assert.Equal(t, []content.Video{v4}, cat.Videos)
	assert.Empty(t, cat.Quizzes)

	cat = store.ClassContent(user.Class3)
	assert.Empty(t, cat.Videos)
	assert.Equal(t, []content.Quiz{q3}, cat.Quizzes)

	chapters := []content.Chapter{{ID: "x", Name: "Custom", ClassLevel: user.Class4}}
	custom := testutil.NewStore(t, nil, portal.WithChapters(chapters))
	assert.Equal(t, chapters, custom.Chapters())
}

func TestStore_ContentUnknownChapter(t *testing.T) {
	store := testutil.NewStore(t, nil)
	testutil.LoginAdmin(t, store)

	item, err := store.AddContent(ctx, content.KindVideo, content.Video{ChapterID: "c9-9", Title: "Orphan", URL: "https://youtu.be/x"})
	require.NoError(t, err)
	require.Len(t, store.Videos(), 1)
	assert.Equal(t, "c9-9", store.Videos()[0].ChapterID)

	_, err = store.EditContent(ctx, content.KindVideo, item.ItemID(), content.Video{ChapterID: "c8-8", Title: "Orphan", URL: "https://youtu.be/x"})
	require.NoError(t, err)

	for _, cl := range user.AllClassLevels {
		cat := store.ClassContent(cl)
		assert.Empty(t, cat.Videos, "class %s", cl)
	}
}

func TestStore_persistenceFailure(t *testing.T) {
	kv := testutil.NewFlakyKV()
	store := testutil.NewStore(t, kv)
	writes := kv.Writes()

	kv.FailWrites(true)
	kid := testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", user.Class4)
	store.UpdateProgress(ctx, "v1", nil)

	// in-memory state moves on
	current, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, kid.ID, current.ID)
	assert.Equal(t, []string{"v1"}, current.Progress.WatchedVideos)
	assert.Equal(t, writes, kv.Writes())

	// the next successful write carries everything
	kv.FailWrites(false)
	store.UpdateProgress(ctx, "v2", nil)
	reloaded := testutil.NewStore(t, kv)
	require.True(t, reloaded.Login(ctx, "kid@fun.com", user.RoleStudent))
	current, _ = reloaded.CurrentUser()
	assert.Equal(t, []string{"v1", "v2"}, current.Progress.WatchedVideos)
	assert.Equal(t, user.Class4, current.SelectedClass)
}

func TestStore_persistsCurrentUser(t *testing.T) {
	kv := testutil.NewFlakyKV()
	store := testutil.NewStore(t, kv)
	kid := testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", user.Class5)

	var current user.User
	require.NoError(t, json.Unmarshal(storedDoc(t, kv)["currentUser"], &current))
	assert.Equal(t, kid.ID, current.ID)
	assert.Equal(t, user.Class5, current.SelectedClass)

	store.Logout(ctx)
	assert.Equal(t, "null", string(storedDoc(t, kv)["currentUser"]))
}

func TestStore_Reset(t *testing.T) {
	store := testutil.NewStore(t, nil)
	testutil.RegisterStudent(t, store, "Kid", "kid@fun.com", user.Class4)
	testutil.AddVideo(t, store, "c4-1", "Monkeys")

	store.Reset(ctx)
	assert.Len(t, store.Users(), 1)
	assert.Empty(t, store.Videos())
	assert.False(t, store.Session().IsLoggedIn())
}

func TestStore_AskTutor(t *testing.T) {
	store := testutil.NewStore(t, nil)
	before := store.Users()

	answer := store.AskTutor(ctx, "What is a noun?", "English")
	assert.NotEmpty(t, answer)
	assert.NotEqual(t, core.TutorFallback, answer)
	assert.Equal(t, before, store.Users())

	quiet := portal.NewStore(ctx, testutil.NewFlakyKV(), nil, logsvc.NewNopLogger())
	assert.Equal(t, core.TutorFallback, quiet.AskTutor(ctx, "hi", ""))
}

// assertConsistent checks the session user and its entry in the user set are the same.
func assertConsistent(t *testing.T, store *portal.Store, id string) {
	t.Helper()
	current, ok := store.CurrentUser()
	require.True(t, ok)
	for _, usr := range store.Users() {
		if usr.ID == id {
			assert.Equal(t, usr, current)
			return
		}
	}
	t.Errorf("user %s not in the user set", id)
}

func sequence(prefix string) func() string {
	var n int
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}
