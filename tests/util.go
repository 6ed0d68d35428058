package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/content"
	"github.com/trezcool/visualminds/core/portal"
	"github.com/trezcool/visualminds/core/user"
	logsvc "github.com/trezcool/visualminds/services/logger"
	consoletutor "github.com/trezcool/visualminds/services/tutor/console"
	inmemkv "github.com/trezcool/visualminds/storage/kv/inmem"
)

// ErrWriteFailed is returned by a FlakyKV told to fail.
var ErrWriteFailed = errors.New("write failed")

// FlakyKV is an in-memory KVStore whose writes can be made to fail.
type FlakyKV struct {
	*inmemkv.Store

	mu     sync.Mutex
	fail   bool
	writes int
}

var _ core.KVStore = (*FlakyKV)(nil)

func NewFlakyKV() *FlakyKV {
	return &FlakyKV{Store: inmemkv.New()}
}

func (kv *FlakyKV) FailWrites(fail bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.fail = fail
}

// Writes returns the number of successful writes.
func (kv *FlakyKV) Writes() int {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.writes
}

func (kv *FlakyKV) Set(ctx context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.fail {
		return ErrWriteFailed
	}
	kv.writes++
	return kv.Store.Set(ctx, key, value)
}

// NewStore returns a store over kv (a fresh in-memory one when nil) with a quiet logger
// and the console tutor.
func NewStore(t *testing.T, kv core.KVStore, opts ...portal.Option) *portal.Store {
	t.Helper()
	if kv == nil {
		kv = inmemkv.New()
	}
	return portal.NewStore(context.Background(), kv, consoletutor.New(discard{}), logsvc.NewNopLogger(), opts...)
}

// RegisterStudent registers & logs in a student, selecting class when set.
func RegisterStudent(t *testing.T, store *portal.Store, name, email string, class user.ClassLevel) user.User {
	t.Helper()
	ctx := context.Background()
	usr, err := store.Register(ctx, name, email)
	if err != nil {
		t.Fatalf("RegisterStudent() failed: %v", err)
	}
	if class != "" {
		if err = store.SetClass(ctx, class); err != nil {
			t.Fatalf("RegisterStudent() failed: %v", err)
		}
		usr, _ = store.CurrentUser()
	}
	return usr
}

// LoginAdmin logs in the seeded admin.
func LoginAdmin(t *testing.T, store *portal.Store) {
	t.Helper()
	if !store.Login(context.Background(), portal.AdminEmail, user.RoleAdmin) {
		t.Fatal("LoginAdmin() failed")
	}
}

// AddQuiz adds a quiz of questions with 3 options each, whose correct answers are correct.
func AddQuiz(t *testing.T, store *portal.Store, chapterID, title string, correct ...int) content.Quiz {
	t.Helper()
	quiz := content.Quiz{ChapterID: chapterID, Title: title}
	for i, c := range correct {
		quiz.Questions = append(quiz.Questions, content.Question{
			ID:            string(rune('a' + i)),
			Text:          title + " question",
			Options:       []string{"one", "two", "three"},
			CorrectAnswer: c,
		})
	}
	item, err := store.AddContent(context.Background(), content.KindQuiz, quiz)
	if err != nil {
		t.Fatalf("AddQuiz() failed: %v", err)
	}
	return item.(content.Quiz)
}

// AddVideo adds a video to chapterID.
func AddVideo(t *testing.T, store *portal.Store, chapterID, title string) content.Video {
	t.Helper()
	item, err := store.AddContent(context.Background(), content.KindVideo, content.Video{
		ChapterID: chapterID,
		Title:     title,
		URL:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("AddVideo() failed: %v", err)
	}
	return item.(content.Video)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
