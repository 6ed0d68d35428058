package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/content"
	"github.com/trezcool/visualminds/core/portal"
	"github.com/trezcool/visualminds/core/user"
)

type (
	LoginRequest struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required"`
	}

	RegisterRequest struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	ClassRequest struct {
		ClassLevel user.ClassLevel `json:"classLevel"`
	}

	ProfileRequest struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}

	QuizSubmission struct {
		Answers []*int `json:"answers" validate:"required"`
	}

	SessionResponse struct {
		Stage portal.Stage `json:"stage"`
		User  *user.User   `json:"user"`
	}

	GradeResponse struct {
		Score      int `json:"score"`
		Total      int `json:"total"`
		Percentage int `json:"percentage"`
		Best       int `json:"best"`
	}
)

func (req *LoginRequest) Validate(v *validator.Validate, translator ut.Translator) (user.Role, error) {
	req.Email = core.CleanString(req.Email, true)
	if err := validateRequest(v, translator, req); err != nil {
		return "", err
	}
	role, ok := user.ParseRole(req.Role)
	if !ok {
		return "", core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}
	return role, nil
}

type sessionApi struct {
	store      *portal.Store
	validate   *validator.Validate
	translator ut.Translator
}

func registerSessionAPI(g *echo.Group, store *portal.Store, validate *validator.Validate, translator ut.Translator) {
	api := sessionApi{
		store:      store,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/session")
	sg.GET("", api.retrieve)
	sg.POST("/login", api.login)
	sg.POST("/register", api.register)
	sg.DELETE("", api.logout)

	mg := g.Group("/me", loggedInMiddleware(store))
	mg.PUT("/class", api.setClass)
	mg.PUT("/profile", api.updateProfile)

	// student with a class selected
	student := studentMiddleware(store)
	mg.GET("/content", api.classContent, student)
	mg.POST("/videos/:id/watched", api.watchVideo, student)
	mg.POST("/quizzes/:id/submit", api.submitQuiz, student)
}

// Handlers

func (api *sessionApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, sessionResponse(api.store.Session()))
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	role, err := data.Validate(api.validate, api.translator)
	if err != nil {
		return err
	}

	if !api.store.Login(ctx.Request().Context(), data.Email, role) {
		return errUserNotFound
	}
	return ctx.JSON(http.StatusOK, sessionResponse(api.store.Session()))
}

func (api *sessionApi) register(ctx echo.Context) error {
	var data RegisterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterRequest")
	}

	usr, err := api.store.Register(ctx.Request().Context(), data.Name, data.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *sessionApi) logout(ctx echo.Context) error {
	api.store.Logout(ctx.Request().Context())
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) setClass(ctx echo.Context) error {
	var data ClassRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClassRequest")
	}
	if err := api.store.SetClass(ctx.Request().Context(), data.ClassLevel); err != nil {
		return err
	}
	return api.currentUser(ctx)
}

func (api *sessionApi) updateProfile(ctx echo.Context) error {
	var data ProfileRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProfileRequest")
	}
	if err := api.store.UpdateProfile(ctx.Request().Context(), data.Name, data.Avatar); err != nil {
		return err
	}
	return api.currentUser(ctx)
}

func (api *sessionApi) currentUser(ctx echo.Context) error {
	usr, ok := api.store.CurrentUser()
	if !ok {
		return errNotLoggedIn
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *sessionApi) classContent(ctx echo.Context) error {
	usr, ok := api.store.CurrentUser()
	if !ok {
		return errNotLoggedIn
	}
	return ctx.JSON(http.StatusOK, newCatalogView(api.store.ClassContent(usr.SelectedClass)))
}

func (api *sessionApi) watchVideo(ctx echo.Context) error {
	id := ctx.Param("id")
	if !hasVideo(api.store.Videos(), id) {
		return errHttpNotFound
	}

	api.store.UpdateProgress(ctx.Request().Context(), id, nil)
	usr, ok := api.store.CurrentUser()
	if !ok {
		return errNotLoggedIn
	}
	return ctx.JSON(http.StatusOK, usr.Progress)
}

func (api *sessionApi) submitQuiz(ctx echo.Context) error {
	var data QuizSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizSubmission")
	}
	if err := validateRequest(api.validate, api.translator, &data); err != nil {
		return err
	}

	quizID := ctx.Param("id")
	grade, err := api.store.SubmitQuiz(ctx.Request().Context(), quizID, data.Answers)
	if err != nil {
		return err
	}
	usr, _ := api.store.CurrentUser()
	best, _ := usr.Progress.Score(quizID)
	return ctx.JSON(http.StatusOK, GradeResponse{
		Score:      grade.Score,
		Total:      grade.Total,
		Percentage: grade.Percentage(),
		Best:       best,
	})
}

func sessionResponse(session portal.Session) SessionResponse {
	resp := SessionResponse{Stage: session.Stage()}
	if usr, ok := session.User(); ok {
		resp.User = &usr
	}
	return resp
}

func hasVideo(videos []content.Video, id string) bool {
	for _, v := range videos {
		if v.ID == id {
			return true
		}
	}
	return false
}
