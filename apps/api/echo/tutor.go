package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core/portal"
)

type (
	TutorRequest struct {
		Question string `json:"question" validate:"required,notblank,max=2000"`
		Context  string `json:"context" validate:"max=200"`
	}

	TutorResponse struct {
		Answer string `json:"answer"`
	}
)

type tutorApi struct {
	store      *portal.Store
	validate   *validator.Validate
	translator ut.Translator
}

func registerTutorAPI(g *echo.Group, store *portal.Store, validate *validator.Validate, translator ut.Translator) {
	api := tutorApi{store: store, validate: validate, translator: translator}
	g.POST("/tutor", api.ask, loggedInMiddleware(store))
}

func (api *tutorApi) ask(ctx echo.Context) error {
	var data TutorRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TutorRequest")
	}
	if err := validateRequest(api.validate, api.translator, &data); err != nil {
		return err
	}

	answer := api.store.AskTutor(ctx.Request().Context(), data.Question, data.Context)
	return ctx.JSON(http.StatusOK, TutorResponse{Answer: answer})
}
