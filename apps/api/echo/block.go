package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/recent"
)

// emptyBlockText is shown when the user has no qualifying course views.
const emptyBlockText = "You will be able to see recent courses listed here once you have accessed some of your enrolled courses."

type (
	BlockItem struct {
		CourseID int    `json:"courseid,omitempty"`
		Title    string `json:"title,omitempty"` // course short name, shown on hover
		Text     string `json:"text"`
		URL      string `json:"url,omitempty"`
		CSSClass string `json:"css_class,omitempty"`
	}

	BlockFooter struct {
		Text string `json:"text"`
		URL  string `json:"url"`
	}

	BlockContent struct {
		Items  []BlockItem  `json:"items"`
		Footer *BlockFooter `json:"footer,omitempty"`
	}
)

type blockApi struct {
	svc    *recent.Service
	access core.AccessChecker
	conf   *core.Config
}

func registerBlockAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *recent.Service, access core.AccessChecker, conf *core.Config) {
	api := blockApi{svc: svc, access: access, conf: conf}

	g.GET("/block", api.render, jwt)
}

// render returns the block content for the session user: recent course
// links plus a settings footer for viewers allowed to change their limit.
func (api *blockApi) render(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	content := BlockContent{Items: []BlockItem{}}
	if claims.Guest {
		return ctx.JSON(http.StatusOK, content)
	}

	userID, err := claims.UserID()
	if err != nil {
		return errors.Wrap(err, "getting session user id")
	}
	courseID, _ := strconv.Atoi(ctx.QueryParam("courseid")) // current course, for the settings redirect

	reqCtx := ctx.Request().Context()
	blockCtx := core.BlockContext(0)

	canChangeLimit, err := api.access.HasCapability(reqCtx, userID, blockCtx, core.CapChangeLimit)
	if err != nil {
		return errors.Wrap(err, "checking changelimit capability")
	}
	if canChangeLimit {
		content.Footer = &BlockFooter{
			Text: "User settings",
			URL:  fmt.Sprintf("/v1/settings?courseid=%d", courseID),
		}
	}

	links, err := api.svc.RecentCourses(reqCtx, userID, blockCtx)
	if err != nil {
		return errors.Wrap(err, "querying recent courses")
	}

	if len(links) == 0 {
		content.Items = append(content.Items, BlockItem{Text: emptyBlockText})
		return ctx.JSON(http.StatusOK, content)
	}

	for _, link := range links {
		cssClass := "visible"
		if link.Dimmed {
			cssClass = "dimmed"
		}
		content.Items = append(content.Items, BlockItem{
			CourseID: link.CourseID,
			Title:    link.ShortName,
			Text:     link.FullName,
			URL:      api.conf.CourseURL(link.CourseID),
			CSSClass: cssClass,
		})
	}
	return ctx.JSON(http.StatusOK, content)
}
