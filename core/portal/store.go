package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/content"
	"github.com/trezcool/visualminds/core/user"
)

// DefaultKey is the key the whole store document is persisted under.
const DefaultKey = "visualminds_data_v1"

var (
	// errors
	ErrNotLoggedIn  = errors.New("no user logged in")
	ErrNotFound     = errors.New("content not found")
	ErrUnknownKind  = errors.New("unknown content kind")
	ErrKindMismatch = errors.New("content does not match its kind")
	ErrDuplicateID  = errors.New("content with this id already exists")
)

type (
	// QuizResult is a graded quiz attempt, as a percentage.
	QuizResult struct {
		QuizID string `json:"quizId"`
		Score  int    `json:"score"`
	}

	Option func(*Store)

	// Store is the single source of truth for the session, the content catalog and the users'
	// progress. Every mutation is written through to the KVStore; write failures are logged and
	// never undo the in-memory state.
	Store struct {
		mu         sync.Mutex
		kv         core.KVStore
		tutor      core.Tutor
		logger     core.Logger
		key        string
		chapters   []content.Chapter
		validate   *validator.Validate
		translator ut.Translator
		newID      func() string

		data      appData
		currentID string // "" when logged out
	}
)

// WithKey sets the key the store document is persisted under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithChapters replaces the built-in curriculum.
func WithChapters(chapters []content.Chapter) Option {
	return func(s *Store) {
		s.chapters = append([]content.Chapter(nil), chapters...)
	}
}

// WithValidator sets the validator used on user input; it must have been set up with NewValidator.
func WithValidator(validate *validator.Validate, translator ut.Translator) Option {
	return func(s *Store) {
		s.validate = validate
		s.translator = translator
	}
}

// WithIDGenerator sets the function minting user & content ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewValidator returns a validator set up with the core, user & content validators.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	content.InitValidators(validate, translator)
	return validate, translator
}

// NewStore loads the store document from kv, or starts from the seed data when it is missing
// or unreadable. Every load starts logged out.
func NewStore(ctx context.Context, kv core.KVStore, tutor core.Tutor, logger core.Logger, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		tutor:    tutor,
		logger:   logger,
		key:      DefaultKey,
		chapters: content.DefaultChapters(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validate == nil {
		s.validate, s.translator = NewValidator()
	}

	s.data = s.load(ctx)
	s.persist(ctx)
	return s
}

func (s *Store) load(ctx context.Context) appData {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Cause(err) == core.ErrKeyNotFound {
			s.logger.Info("no stored data found, starting from seed data")
		} else {
			s.logger.Error(fmt.Sprintf("reading stored data: %v", err), errors.Wrap(err, "reading stored data"))
		}
		return seedData()
	}
	data, err := decodeData(raw)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("discarding stored data: %v", err), err)
		return seedData()
	}
	return data
}

// persist writes the whole document. Failures are logged & counted, never returned.
func (s *Store) persist(ctx context.Context) {
	doc := s.data
	if i := s.currentIndex(); i >= 0 {
		current := s.data.Users[i]
		doc.CurrentUser = &current
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		persistFailures.Inc()
		s.logger.Error(fmt.Sprintf("encoding data: %v", err), errors.Wrap(err, "encoding data"))
		return
	}
	if err = s.kv.Set(ctx, s.key, raw); err != nil {
		persistFailures.Inc()
		s.logger.Error(fmt.Sprintf("saving data: %v", err), errors.Wrap(err, "saving data"))
	}
}

func (s *Store) commit(ctx context.Context, op string) {
	mutations.WithLabelValues(op).Inc()
	s.persist(ctx)
}

func (s *Store) userIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.data.Users {
		if s.data.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) currentIndex() int {
	return s.userIndex(s.currentID)
}

// mutateCurrent applies fn to the user set's copy of the logged in user. The session only
// references the user by id, so every change is seen by both. Reports false when logged out.
func (s *Store) mutateCurrent(fn func(usr *user.User)) bool {
	i := s.currentIndex()
	if i < 0 {
		return false
	}
	fn(&s.data.Users[i])
	return true
}

func (s *Store) validationError(err error) error {
	return core.TranslateValidationErrors(err, s.translator)
}

// Session

// Login logs in the user with this email (case-insensitive) and role.
// Reports false, leaving the session untouched, when there is no such user.
func (s *Store) Login(ctx context.Context, email string, role user.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, usr := range s.data.Users {
		if usr.Matches(email, role) {
			s.currentID = usr.ID
			logins.WithLabelValues(string(role), "ok").Inc()
			s.commit(ctx, "login")
			return true
		}
	}
	logins.WithLabelValues(string(role), "not_found").Inc()
	return false
}

// Register signs up a new student and logs them in.
// When a student with this email already exists, they are logged in instead.
func (s *Store) Register(ctx context.Context, name, email string) (user.User, error) {
	nu := user.NewUser{Name: name, Email: email}
	if err := nu.Validate(s.validate); err != nil {
		return user.User{}, s.validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, usr := range s.data.Users {
		if usr.Matches(nu.Email, user.RoleStudent) {
			s.currentID = usr.ID
			s.commit(ctx, "login")
			return usr.Clone(), nil
		}
	}

	usr := user.User{
		ID:       s.newID(),
		Name:     nu.Name,
		Email:    nu.Email,
		Role:     user.RoleStudent,
		Avatar:   user.DefaultAvatar,
		Progress: user.NewProgress(),
	}
	for s.userIndex(usr.ID) >= 0 {
		usr.ID = s.newID()
	}
	s.data.Users = append(s.data.Users, usr)
	s.currentID = usr.ID
	s.commit(ctx, "register")
	s.logger.Info("student registered", usr)
	return usr.Clone(), nil
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentID = ""
	s.commit(ctx, "logout")
}

func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.currentIndex(); i >= 0 {
		return LoggedIn(s.data.Users[i])
	}
	return LoggedOut()
}

// CurrentUser returns the logged in user, if any.
func (s *Store) CurrentUser() (user.User, bool) {
	return s.Session().User()
}

// Profile

// SetClass selects the class level of the logged in user. No-op when logged out.
func (s *Store) SetClass(ctx context.Context, class user.ClassLevel) error {
	sc := user.SelectClass{ClassLevel: class}
	if err := sc.Validate(s.validate); err != nil {
		return s.validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mutateCurrent(func(usr *user.User) { usr.SelectedClass = sc.ClassLevel }) {
		s.commit(ctx, "set_class")
	}
	return nil
}

// UpdateProfile changes the name & avatar of the logged in user. No-op when logged out.
func (s *Store) UpdateProfile(ctx context.Context, name, avatar string) error {
	up := user.UpdateProfile{Name: name, Avatar: avatar}
	if err := up.Validate(s.validate); err != nil {
		return s.validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mutateCurrent(func(usr *user.User) {
		usr.Name = up.Name
		usr.Avatar = up.Avatar
	}) {
		s.commit(ctx, "update_profile")
	}
	return nil
}

// Progress

// UpdateProgress records a watched video and/or a quiz result for the logged in user.
// Either may be empty. No-op when logged out.
func (s *Store) UpdateProgress(ctx context.Context, videoID string, result *QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateProgress(videoID, result) {
		s.commit(ctx, "update_progress")
	}
}

func (s *Store) updateProgress(videoID string, result *QuizResult) bool {
	return s.mutateCurrent(func(usr *user.User) {
		if videoID != "" {
			usr.Progress.Watch(videoID)
		}
		if result != nil && result.QuizID != "" {
			usr.Progress.RecordScore(result.QuizID, result.Score)
		}
	})
}

// SubmitQuiz grades the logged in user's answers to a quiz and records the percentage.
func (s *Store) SubmitQuiz(ctx context.Context, quizID string, answers []*int) (content.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex() < 0 {
		return content.Grade{}, ErrNotLoggedIn
	}
	var quiz *content.Quiz
	for i := range s.data.Quizzes {
		if s.data.Quizzes[i].ID == quizID {
			quiz = &s.data.Quizzes[i]
			break
		}
	}
	if quiz == nil {
		return content.Grade{}, ErrNotFound
	}

	grade := content.GradeQuiz(*quiz, answers)
	s.updateProgress("", &QuizResult{QuizID: quiz.ID, Score: grade.Percentage()})
	s.commit(ctx, "submit_quiz")
	return grade, nil
}

// Content

func (s *Store) checkItem(kind content.Kind, item content.Item) error {
	if !kind.IsValid() {
		return ErrUnknownKind
	}
	if item == nil || item.ItemKind() != kind {
		return ErrKindMismatch
	}
	if err := content.Validate(s.validate, item); err != nil {
		return s.validationError(err)
	}
	return nil
}

// AddContent appends item to the collection of its kind, minting an id when it has none.
func (s *Store) AddContent(ctx context.Context, kind content.Kind, item content.Item) (content.Item, error) {
	if err := s.checkItem(kind, item); err != nil {
		return nil, err
	}
	if item.ItemID() == "" {
		item = item.WithID(s.newID())
	}

	stored := cloneItem(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch kind {
	case content.KindVideo:
		s.data.Videos, err = appendItem(s.data.Videos, stored)
	case content.KindMindMap:
		s.data.MindMaps, err = appendItem(s.data.MindMaps, stored)
	case content.KindQuiz:
		s.data.Quizzes, err = appendItem(s.data.Quizzes, stored)
	}
	if err != nil {
		return nil, err
	}
	s.commit(ctx, "add_"+kind.String())
	return item, nil
}

// EditContent replaces the item with this id in the collection of kind. The id is kept.
func (s *Store) EditContent(ctx context.Context, kind content.Kind, id string, item content.Item) (content.Item, error) {
	if err := s.checkItem(kind, item); err != nil {
		return nil, err
	}
	item = item.WithID(id)
	stored := cloneItem(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch kind {
	case content.KindVideo:
		s.data.Videos, err = replaceItem(s.data.Videos, stored)
	case content.KindMindMap:
		s.data.MindMaps, err = replaceItem(s.data.MindMaps, stored)
	case content.KindQuiz:
		s.data.Quizzes, err = replaceItem(s.data.Quizzes, stored)
	}
	if err != nil {
		return nil, err
	}
	s.commit(ctx, "edit_"+kind.String())
	return item, nil
}

// RemoveContent removes the item with this id from the collection of kind.
func (s *Store) RemoveContent(ctx context.Context, kind content.Kind, id string) error {
	if !kind.IsValid() {
		return ErrUnknownKind
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch kind {
	case content.KindVideo:
		s.data.Videos, err = removeItem(s.data.Videos, id)
	case content.KindMindMap:
		s.data.MindMaps, err = removeItem(s.data.MindMaps, id)
	case content.KindQuiz:
		s.data.Quizzes, err = removeItem(s.data.Quizzes, id)
	}
	if err != nil {
		return err
	}
	s.commit(ctx, "remove_"+kind.String())
	return nil
}

// cloneItem keeps callers from sharing slices with the stored item.
func cloneItem(item content.Item) content.Item {
	if q, ok := item.(content.Quiz); ok {
		return q.Clone()
	}
	return item
}

func appendItem[T content.Item](items []T, item content.Item) ([]T, error) {
	it, ok := item.(T)
	if !ok {
		return items, ErrKindMismatch
	}
	for _, existing := range items {
		if existing.ItemID() == it.ItemID() {
			return items, ErrDuplicateID
		}
	}
	return append(items, it), nil
}

func replaceItem[T content.Item](items []T, item content.Item) ([]T, error) {
	it, ok := item.(T)
	if !ok {
		return items, ErrKindMismatch
	}
	for i := range items {
		if items[i].ItemID() == it.ItemID() {
			res := make([]T, len(items))
			copy(res, items)
			res[i] = it
			return res, nil
		}
	}
	return items, ErrNotFound
}

func removeItem[T content.Item](items []T, id string) ([]T, error) {
	res := make([]T, 0, len(items))
	for _, it := range items {
		if it.ItemID() != id {
			res = append(res, it)
		}
	}
	if len(res) == len(items) {
		return items, ErrNotFound
	}
	return res, nil
}

// Reset drops all users & content and starts over from the seed data, logged out.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = seedData()
	s.currentID = ""
	s.commit(ctx, "reset")
}

// Queries

func (s *Store) Users() []user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]user.User, len(s.data.Users))
	for i, usr := range s.data.Users {
		users[i] = usr.Clone()
	}
	return users
}

func (s *Store) Chapters() []content.Chapter {
	return append([]content.Chapter(nil), s.chapters...)
}

func (s *Store) Videos() []content.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]content.Video{}, s.data.Videos...)
}

func (s *Store) MindMaps() []content.MindMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]content.MindMap{}, s.data.MindMaps...)
}

func (s *Store) Quizzes() []content.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneQuizzes(s.data.Quizzes)
}

func cloneQuizzes(quizzes []content.Quiz) []content.Quiz {
	res := make([]content.Quiz, len(quizzes))
	for i, q := range quizzes {
		res[i] = q.Clone()
	}
	return res
}

// Content returns the collection of kind.
func (s *Store) Content(kind content.Kind) ([]content.Item, error) {
	var items []content.Item
	switch kind {
	case content.KindVideo:
		for _, it := range s.Videos() {
			items = append(items, it)
		}
	case content.KindMindMap:
		for _, it := range s.MindMaps() {
			items = append(items, it)
		}
	case content.KindQuiz:
		for _, it := range s.Quizzes() {
			items = append(items, it)
		}
	default:
		return nil, ErrUnknownKind
	}
	if items == nil {
		items = []content.Item{}
	}
	return items, nil
}

// ClassContent returns the chapters of a class level and the content attached to them.
func (s *Store) ClassContent(class user.ClassLevel) content.Catalog {
	chapters := content.ChaptersFor(s.chapters, class)

	s.mu.Lock()
	defer s.mu.Unlock()

	return content.Catalog{
		Chapters: chapters,
		Videos:   content.InChapters(s.data.Videos, chapters),
		MindMaps: content.InChapters(s.data.MindMaps, chapters),
		Quizzes:  cloneQuizzes(content.InChapters(s.data.Quizzes, chapters)),
	}
}

// Tutor

// AskTutor forwards a question to the tutor. It never fails and never changes the store.
func (s *Store) AskTutor(ctx context.Context, question, contextLabel string) string {
	if s.tutor == nil {
		return core.TutorFallback
	}
	return s.tutor.Ask(ctx, question, contextLabel)
}

// Close closes the underlying KVStore.
func (s *Store) Close() error {
	return s.kv.Close()
}
