// Package usagehandler serves the caller's token accounting.
package usagehandler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/domain/tokenusage"
	authhandler "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

const dateLayout = "2006-01-02"

// UsageHandler handles token usage requests.
type UsageHandler struct {
	usageService *tokenusage.Service
}

// NewUsageHandler creates a new usage handler.
func NewUsageHandler(usageService *tokenusage.Service) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

// GetMyUsage godoc
// @Summary Get the caller's token usage
// @Description Returns a per-model token usage summary for the authenticated user within a date range
// @Tags Usage
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Start date (YYYY-MM-DD), defaults to 30 days ago"
// @Param end_date query string false "End date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} tokenusage.UsageResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/usage [get]
func (h *UsageHandler) GetMyUsage(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"authentication required", "d4b92e7f-6a01-4c58-83bd-f5e2a9c71d06")
		return
	}

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		responses.HandleError(c, err, "invalid date range")
		return
	}

	usage, err := h.usageService.GetMyUsage(c.Request.Context(), usr.ID, startDate, endDate)
	if err != nil {
		responses.HandleError(c, err, "failed to load usage")
		return
	}

	c.JSON(http.StatusOK, usage)
}

// parseDateRange reads the start_date/end_date query parameters. The window
// defaults to the trailing 30 days; end_date is widened to the end of its
// day so a single-day query covers the whole day.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	startDate := now.AddDate(0, 0, -30)
	endDate := now

	if startStr := c.Query("start_date"); startStr != "" {
		parsed, err := time.Parse(dateLayout, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, platformerrors.NewError(c.Request.Context(),
				platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
				"start_date must be YYYY-MM-DD", err, "2e8f5a1d-9c47-4b63-a0e8-7d3b6f2c4a95")
		}
		startDate = parsed
	}

	if endStr := c.Query("end_date"); endStr != "" {
		parsed, err := time.Parse(dateLayout, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, platformerrors.NewError(c.Request.Context(),
				platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
				"end_date must be YYYY-MM-DD", err, "b6c03f82-1d95-4e47-8a2c-59f7d4e1b038")
		}
		endDate = parsed.Add(24*time.Hour - time.Second)
	}

	return startDate, endDate, nil
}
