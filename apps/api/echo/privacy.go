package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/privacy"
)

type privacyApi struct {
	provider *privacy.Provider
}

type (
	// approvedContextsRequest carries the contexts the compliance
	// orchestrator approved for a per-user operation.
	approvedContextsRequest struct {
		Contexts []core.Context `json:"contexts"`
	}

	contextRequest struct {
		Context core.Context `json:"context"`
	}

	contextUsersRequest struct {
		Context core.Context `json:"context"`
		UserIDs []int        `json:"userids"`
	}
)

func registerPrivacyAPI(g *echo.Group, jwt echo.MiddlewareFunc, provider *privacy.Provider) {
	api := privacyApi{provider: provider}

	pg := g.Group("/privacy", jwt, serviceAccountMiddleware())
	pg.GET("/metadata", api.metadata)
	pg.GET("/users/:id/contexts", api.userContexts)
	pg.POST("/users/:id/export", api.exportUserData)
	pg.POST("/users/:id/delete", api.deleteForUser)
	pg.POST("/contexts/delete", api.deleteAllInContext)
	pg.POST("/contexts/users/delete", api.deleteForUsers)
	pg.POST("/contexts/users", api.usersInContext)
}

func (api *privacyApi) metadata(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.provider.Metadata())
}

func (api *privacyApi) userContexts(ctx echo.Context) error {
	userID, err := pathUserID(ctx)
	if err != nil {
		return err
	}
	contexts, err := api.provider.ContextsForUser(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "locating user contexts")
	}
	return ctx.JSON(http.StatusOK, contexts)
}

func (api *privacyApi) exportUserData(ctx echo.Context) error {
	userID, err := pathUserID(ctx)
	if err != nil {
		return err
	}
	var req approvedContextsRequest
	if err = ctx.Bind(&req); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid request body"))
	}

	export, err := api.provider.ExportUserData(ctx.Request().Context(), userID, req.Contexts)
	if err != nil {
		return errors.Wrap(err, "exporting user data")
	}
	if export == nil { // nothing approved for this module
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, export)
}

func (api *privacyApi) deleteForUser(ctx echo.Context) error {
	userID, err := pathUserID(ctx)
	if err != nil {
		return err
	}
	var req approvedContextsRequest
	if err = ctx.Bind(&req); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid request body"))
	}
	if err = api.provider.DeleteForUser(ctx.Request().Context(), userID, req.Contexts); err != nil {
		return errors.Wrap(err, "deleting user data")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *privacyApi) deleteAllInContext(ctx echo.Context) error {
	var req contextRequest
	if err := ctx.Bind(&req); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid request body"))
	}
	if err := api.provider.DeleteAllInContext(ctx.Request().Context(), req.Context); err != nil {
		return errors.Wrap(err, "deleting data in context")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *privacyApi) deleteForUsers(ctx echo.Context) error {
	var req contextUsersRequest
	if err := ctx.Bind(&req); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid request body"))
	}
	if err := api.provider.DeleteForUsers(ctx.Request().Context(), req.Context, req.UserIDs); err != nil {
		return errors.Wrap(err, "deleting data for users")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *privacyApi) usersInContext(ctx echo.Context) error {
	var req contextRequest
	if err := ctx.Bind(&req); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid request body"))
	}
	userIDs, err := api.provider.UsersInContext(ctx.Request().Context(), req.Context)
	if err != nil {
		return errors.Wrap(err, "listing users in context")
	}
	return ctx.JSON(http.StatusOK, userIDs)
}

func pathUserID(ctx echo.Context) (int, error) {
	userID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return userID, nil
}
