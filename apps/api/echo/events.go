package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core/event"
)

type eventApi struct {
	svc *event.Service
}

func registerEventAPI(g *echo.Group, jwt, admin echo.MiddlewareFunc, svc *event.Service) {
	api := eventApi{svc: svc}

	eg := g.Group("/events")
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.DELETE("/:id", api.destroy, jwt, admin)
}

func bindEventQuery(ctx echo.Context) (event.QueryFilter, *Ordering) {
	var filter event.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		filter = event.QueryFilter{} // a malformed query string is treated as no filter
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	return filter, ordering
}

func (api *eventApi) query(ctx echo.Context) error {
	filter, ordering := bindEventQuery(ctx)

	evts, err := api.svc.QueryEvents(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if evts == nil {
		evts = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, evts)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	evt, err := api.svc.GetEvent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteEvent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
