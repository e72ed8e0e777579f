package controller

import (
	"net/http"

	"github.com/unclebandit/campaigncentral-backend/internal/service"
)

type AnalyticsController struct {
	Service *service.AnalyticsService
}

func (c *AnalyticsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Dashboard()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
