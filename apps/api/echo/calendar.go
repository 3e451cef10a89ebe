package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/calendar"
)

var errNoUpcomingEvent = echo.NewHTTPError(http.StatusNotFound, "no upcoming event")

type calendarApi struct {
	svc *calendar.Service
}

func registerCalendarAPI(g *echo.Group, svc *calendar.Service) {
	api := calendarApi{svc: svc}

	cg := g.Group("/calendar")
	cg.GET("", api.month)
	cg.GET("/days/:date", api.day)
	cg.GET("/next", api.next)
	cg.GET("/kinds", api.kinds)
}

// intParam reads an optional integer query param within [min, max].
func intParam(ctx echo.Context, name string, def, min, max int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < min || val > max {
		return 0, core.NewValidationError(nil, core.FieldError{
			Field: name,
			Error: name + " must be a number between " + strconv.Itoa(min) + " and " + strconv.Itoa(max),
		})
	}
	return val, nil
}

func dateParam(raw string, loc *time.Location, field string) (time.Time, error) {
	date, err := core.ParseDateKey(raw, loc)
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{Field: field, Error: field + " must be a date (YYYY-MM-DD)"})
	}
	return date, nil
}

func (api *calendarApi) month(ctx echo.Context) error {
	now := api.svc.Now()
	year, err := intParam(ctx, "year", now.Year(), 1, 9999)
	if err != nil {
		return err
	}
	month, err := intParam(ctx, "month", int(now.Month()), 1, 12)
	if err != nil {
		return err
	}

	view := api.svc.Month(ctx.Request().Context(), year, time.Month(month), bindLang(ctx))
	return ctx.JSON(http.StatusOK, view)
}

func (api *calendarApi) day(ctx echo.Context) error {
	date, err := dateParam(ctx.Param("date"), api.svc.Location(), "date")
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Day(ctx.Request().Context(), date, bindLang(ctx)))
}

func (api *calendarApi) next(ctx echo.Context) error {
	from := api.svc.Now()
	if raw := ctx.QueryParam("from"); raw != "" {
		var err error
		if from, err = dateParam(raw, api.svc.Location(), "from"); err != nil {
			return err
		}
	}

	entry, ok := api.svc.Next(ctx.Request().Context(), from, bindLang(ctx))
	if !ok {
		return errNoUpcomingEvent
	}
	return ctx.JSON(http.StatusOK, entry)
}

func (api *calendarApi) kinds(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Kinds(bindLang(ctx)))
}
