package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core/club"
)

type clubApi struct {
	svc *club.Service
}

// clubs are read-only over HTTP: they are loaded with the admin CLI.
func registerClubAPI(g *echo.Group, svc *club.Service) {
	api := clubApi{svc: svc}

	cg := g.Group("/clubs")
	cg.GET("", api.query)
	cg.GET("/categories", api.categories)
	cg.GET("/:id", api.retrieve)
}

func (api *clubApi) query(ctx echo.Context) error {
	var filter club.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []club.Club{})
	}

	clubs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying clubs")
	}
	if clubs == nil {
		clubs = []club.Club{}
	}
	return ctx.JSON(http.StatusOK, clubs)
}

func (api *clubApi) categories(ctx echo.Context) error {
	cats, err := api.svc.Categories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying club categories")
	}
	return ctx.JSON(http.StatusOK, cats)
}

func (api *clubApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding club")
	}
	return ctx.JSON(http.StatusOK, c)
}
