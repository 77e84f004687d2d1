package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-meet/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads the "ordering" query param, e.g. `?ordering=-date,title`. Fields not in `allowed` are ignored.
func (ord *Ordering) Bind(ctx echo.Context, allowed ...string) {
	if val := ctx.QueryParam(orderingParam); val != "" {
		ord.Orderings = core.ParseOrdering(val, allowed...)
	}
}
