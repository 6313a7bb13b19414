package schedule

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/pkg/httputil"
	"github.com/jwalitptl/clinic-api/pkg/timeslot"
)

type Handler struct {
	options []timeslot.GroupedOptions
}

// NewHandler precomputes the grouped options; they never change.
func NewHandler() *Handler {
	return &Handler{options: timeslot.Partition(timeslot.Generate())}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/time-options", h.ListTimeOptions)
}

func (h *Handler) ListTimeOptions(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.options)
}
