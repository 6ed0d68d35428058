package content

import (
	"strings"

	"github.com/trezcool/visualminds/core/user"
)

// Kind selects one of the content collections.
type Kind int

// Kinds
const (
	KindVideo Kind = iota + 1
	KindMindMap
	KindQuiz
)

var AllKinds = []Kind{KindVideo, KindMindMap, KindQuiz}

var kindNames = map[Kind]string{
	KindVideo:   "video",
	KindMindMap: "map",
	KindQuiz:    "quiz",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind accepts the singular or plural kind name ("video", "videos", "map", "mindmaps", ...).
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "videos":
		return KindVideo, true
	case "map", "maps", "mindmap", "mindmaps":
		return KindMindMap, true
	case "quiz", "quizzes":
		return KindQuiz, true
	}
	return 0, false
}

// Item is a piece of content belonging to a chapter.
type Item interface {
	ItemID() string
	ItemKind() Kind
	ChapterRef() string
	// WithID returns a copy of the item carrying id.
	WithID(id string) Item
}

// Mind map types
const (
	MapImage = "image"
	MapPDF   = "pdf"
)

type (
	// Chapter is a named unit of curriculum tied to one class level.
	Chapter struct {
		ID         string          `json:"id" yaml:"id"`
		Name       string          `json:"name" yaml:"name"`
		ClassLevel user.ClassLevel `json:"classLevel" yaml:"classLevel"`
	}

	Video struct {
		ID        string `json:"id" yaml:"id"`
		ChapterID string `json:"chapterId" yaml:"chapterId" validate:"required"`
		Title     string `json:"title" yaml:"title" validate:"required,notblank"`
		URL       string `json:"url" yaml:"url" validate:"required,url"`
	}

	MindMap struct {
		ID        string `json:"id" yaml:"id"`
		ChapterID string `json:"chapterId" yaml:"chapterId" validate:"required"`
		Title     string `json:"title" yaml:"title" validate:"required,notblank"`
		URL       string `json:"url" yaml:"url" validate:"required"`
		Type      string `json:"type" yaml:"type" validate:"required,oneof=image pdf"`
	}

	Quiz struct {
		ID        string     `json:"id" yaml:"id"`
		ChapterID string     `json:"chapterId" yaml:"chapterId" validate:"required"`
		Title     string     `json:"title" yaml:"title" validate:"required,notblank"`
		Questions []Question `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
	}

	Question struct {
		ID            string   `json:"id" yaml:"id"`
		Text          string   `json:"question" yaml:"question" validate:"required,notblank"`
		Options       []string `json:"options" yaml:"options" validate:"min=2,dive,required"`
		CorrectAnswer int      `json:"correctAnswer" yaml:"correctAnswer" validate:"min=0"`
	}
)

func (v Video) ItemID() string        { return v.ID }
func (v Video) ItemKind() Kind        { return KindVideo }
func (v Video) ChapterRef() string    { return v.ChapterID }
func (v Video) WithID(id string) Item { v.ID = id; return v }

func (m MindMap) ItemID() string        { return m.ID }
func (m MindMap) ItemKind() Kind        { return KindMindMap }
func (m MindMap) ChapterRef() string    { return m.ChapterID }
func (m MindMap) WithID(id string) Item { m.ID = id; return m }

func (q Quiz) ItemID() string     { return q.ID }
func (q Quiz) ItemKind() Kind     { return KindQuiz }
func (q Quiz) ChapterRef() string { return q.ChapterID }
func (q Quiz) WithID(id string) Item {
	q.ID = id
	return q
}

// Clone returns a deep copy of the quiz.
func (q Quiz) Clone() Quiz {
	questions := make([]Question, len(q.Questions))
	for i, qn := range q.Questions {
		qn.Options = append([]string(nil), qn.Options...)
		questions[i] = qn
	}
	q.Questions = questions
	return q
}

// Catalog is the content a class level can see.
type Catalog struct {
	Chapters []Chapter `json:"chapters"`
	Videos   []Video   `json:"videos"`
	MindMaps []MindMap `json:"mindMaps"`
	Quizzes  []Quiz    `json:"quizzes"`
}

// DefaultChapters is the built-in curriculum.
func DefaultChapters() []Chapter {
	return []Chapter{
		{ID: "c4-1", Name: "Chimpu Monkey", ClassLevel: user.Class4},
		{ID: "c5-1", Name: "Dignity of Labour", ClassLevel: user.Class5},
		{ID: "c3-1", Name: "Introduction to Numbers", ClassLevel: user.Class3},
	}
}

// ChaptersFor returns the chapters of the given class level, in catalog order.
func ChaptersFor(chapters []Chapter, class user.ClassLevel) []Chapter {
	res := make([]Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if ch.ClassLevel == class {
			res = append(res, ch)
		}
	}
	return res
}

// FindChapter returns the chapter with the given id.
func FindChapter(chapters []Chapter, id string) (Chapter, bool) {
	for _, ch := range chapters {
		if ch.ID == id {
			return ch, true
		}
	}
	return Chapter{}, false
}

// InChapters keeps the items whose chapter is one of chapters.
// Items referencing an unknown chapter are dropped.
func InChapters[T Item](items []T, chapters []Chapter) []T {
	ids := make(map[string]struct{}, len(chapters))
	for _, ch := range chapters {
		ids[ch.ID] = struct{}{}
	}
	res := make([]T, 0, len(items))
	for _, it := range items {
		if _, ok := ids[it.ChapterRef()]; ok {
			res = append(res, it)
		}
	}
	return res
}
