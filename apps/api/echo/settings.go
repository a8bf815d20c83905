package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/preference"
)

type settingsApi struct {
	svc      *preference.Service
	validate *validator.Validate
	conf     *core.Config
}

// settingsRequest is the submitted settings form. Cancel discards the
// submission and only redirects.
type settingsRequest struct {
	preference.UpsertPreference
	Cancel bool `json:"cancel"`
}

func registerSettingsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *preference.Service, validate *validator.Validate, conf *core.Config) {
	api := settingsApi{svc: svc, validate: validate, conf: conf}

	sg := g.Group("/settings", jwt, sessionUserMiddleware())
	sg.GET("", api.form)
	sg.POST("", api.submit)
}

// form returns the pre-populated settings form data for the session user.
func (api *settingsApi) form(ctx echo.Context) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	courseID, err := requiredCourseID(ctx)
	if err != nil {
		return err
	}

	data, err := api.svc.FormData(ctx.Request().Context(), userID, courseID)
	if err != nil {
		return errors.Wrap(err, "loading settings form data")
	}
	return ctx.JSON(http.StatusOK, data)
}

// submit saves the session user's display limit and redirects back to the
// course the form was opened from.
func (api *settingsApi) submit(ctx echo.Context) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}

	var req settingsRequest
	if err = ctx.Bind(&req); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid form data"))
	}
	// the session, not the form, says whose preference this is
	req.UserID = userID

	if req.Cancel {
		return ctx.Redirect(http.StatusSeeOther, api.conf.CourseURL(req.CourseID))
	}

	if err = req.UpsertPreference.Validate(api.validate); err != nil {
		return err
	}
	if _, err = api.svc.Upsert(ctx.Request().Context(), req.UpsertPreference); err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return ctx.Redirect(http.StatusSeeOther, api.conf.CourseURL(req.CourseID))
}

func sessionUserID(ctx echo.Context) (int, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "getting context claims")
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, errors.Wrap(err, "getting session user id")
	}
	return userID, nil
}

func requiredCourseID(ctx echo.Context) (int, error) {
	raw := core.CleanString(ctx.QueryParam("courseid"))
	if raw == "" {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "courseid", Error: "this field is required"})
	}
	courseID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "courseid", Error: "invalid course id"})
	}
	return courseID, nil
}
