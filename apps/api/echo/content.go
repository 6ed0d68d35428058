package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core/content"
	"github.com/trezcool/visualminds/core/portal"
)

type (
	VideoView struct {
		content.Video
		EmbedURL string `json:"embedUrl"`
	}

	MindMapView struct {
		content.MindMap
		EmbedURL string `json:"embedUrl"`
	}

	// QuestionView hides the correct answer from students.
	QuestionView struct {
		ID      string   `json:"id"`
		Text    string   `json:"question"`
		Options []string `json:"options"`
	}

	QuizView struct {
		ID        string         `json:"id"`
		ChapterID string         `json:"chapterId"`
		Title     string         `json:"title"`
		Questions []QuestionView `json:"questions"`
	}

	CatalogView struct {
		Chapters []content.Chapter `json:"chapters"`
		Videos   []VideoView       `json:"videos"`
		MindMaps []MindMapView     `json:"mindMaps"`
		Quizzes  []QuizView        `json:"quizzes"`
	}
)

func newCatalogView(cat content.Catalog) CatalogView {
	view := CatalogView{
		Chapters: cat.Chapters,
		Videos:   make([]VideoView, 0, len(cat.Videos)),
		MindMaps: make([]MindMapView, 0, len(cat.MindMaps)),
		Quizzes:  make([]QuizView, 0, len(cat.Quizzes)),
	}
	for _, v := range cat.Videos {
		view.Videos = append(view.Videos, VideoView{Video: v, EmbedURL: content.EmbedURL(v.URL)})
	}
	for _, m := range cat.MindMaps {
		view.MindMaps = append(view.MindMaps, MindMapView{MindMap: m, EmbedURL: content.EmbedURL(m.URL)})
	}
	for _, q := range cat.Quizzes {
		qv := QuizView{ID: q.ID, ChapterID: q.ChapterID, Title: q.Title, Questions: make([]QuestionView, 0, len(q.Questions))}
		for _, qn := range q.Questions {
			qv.Questions = append(qv.Questions, QuestionView{ID: qn.ID, Text: qn.Text, Options: qn.Options})
		}
		view.Quizzes = append(view.Quizzes, qv)
	}
	return view
}

// itemView adds the embed url to videos & mind maps.
func itemView(item content.Item) interface{} {
	switch it := item.(type) {
	case content.Video:
		return VideoView{Video: it, EmbedURL: content.EmbedURL(it.URL)}
	case content.MindMap:
		return MindMapView{MindMap: it, EmbedURL: content.EmbedURL(it.URL)}
	default:
		return item
	}
}

type contentApi struct {
	store *portal.Store
}

func registerContentAPI(g *echo.Group, store *portal.Store) {
	api := contentApi{store: store}

	g.GET("/chapters", api.chapters)

	admin := adminMiddleware(store)
	g.GET("/users", api.users, admin)

	cg := g.Group("/content/:kind", admin)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *contentApi) chapters(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.Chapters())
}

func (api *contentApi) users(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.Users())
}

func (api *contentApi) query(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	items, err := api.store.Content(kind)
	if err != nil {
		return err
	}
	views := make([]interface{}, len(items))
	for i, it := range items {
		views[i] = itemView(it)
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *contentApi) create(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	item, err := bindItem(ctx, kind)
	if err != nil {
		return err
	}

	item, err = api.store.AddContent(ctx.Request().Context(), kind, item)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, itemView(item))
}

func (api *contentApi) update(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	item, err := bindItem(ctx, kind)
	if err != nil {
		return err
	}

	item, err = api.store.EditContent(ctx.Request().Context(), kind, ctx.Param("id"), item)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, itemView(item))
}

func (api *contentApi) destroy(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	if err = api.store.RemoveContent(ctx.Request().Context(), kind, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func kindParam(ctx echo.Context) (content.Kind, error) {
	kind, ok := content.ParseKind(ctx.Param("kind"))
	if !ok {
		return 0, errUnknownKind
	}
	return kind, nil
}

// bindItem decodes the request body into the item type of kind.
func bindItem(ctx echo.Context, kind content.Kind) (content.Item, error) {
	var (
		item content.Item
		err  error
	)
	switch kind {
	case content.KindVideo:
		var v content.Video
		err = ctx.Bind(&v)
		item = v
	case content.KindMindMap:
		var m content.MindMap
		err = ctx.Bind(&m)
		item = m
	case content.KindQuiz:
		var q content.Quiz
		err = ctx.Bind(&q)
		item = q
	default:
		return nil, errUnknownKind
	}
	if err != nil {
		return nil, errors.Wrapf(err, "binding to %s", kind)
	}
	return item, nil
}
