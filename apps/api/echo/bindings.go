package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/eventhub/core"
)

const (
	orderingParam = "ordering"
	langParam     = "lang"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads ?ordering=date,-title; a leading "-" sorts descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindLang returns the ?lang param, else the raw Accept-Language header.
// The translator does the matching, so an empty or unknown value means English.
func bindLang(ctx echo.Context) string {
	if lang := strings.TrimSpace(ctx.QueryParam(langParam)); lang != "" {
		return lang
	}
	return ctx.Request().Header.Get("Accept-Language")
}
