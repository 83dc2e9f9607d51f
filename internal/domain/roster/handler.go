package roster

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/welldoc/riskdash/pkg/pagination"
)

type Handler struct {
	dir *Directory
}

func NewHandler(dir *Directory) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
}

// ListPatients serves the filtered cohort. An empty result set is a normal
// 200 response, not an error.
func (h *Handler) ListPatients(c echo.Context) error {
	q := FilterQuery{
		Search:    c.QueryParam("q"),
		AgeGroup:  c.QueryParam("age_group"),
		Condition: c.QueryParam("condition"),
		Insurance: c.QueryParam("insurance"),
	}

	matched := h.dir.Filter(q)
	pg := pagination.FromContext(c)
	from, to := pg.Slice(len(matched))
	page := matched[from:to]
	if page == nil {
		page = []*Patient{}
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(matched), pg.Limit, pg.Offset))
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, ok := h.dir.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}
