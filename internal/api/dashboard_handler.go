package api

import (
	"net/http"

	"gymdesk/routine-admin/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary Staff dashboard
// @Description The five most recently registered students and the five routines expiring soonest. Trainers only see their own.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	dash, err := h.dashboardService.Summary(c.Request.Context(), sess)
	if err != nil {
		abortWithServiceError(c, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, dash)
}
