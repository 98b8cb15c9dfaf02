package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	schedule "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/httperr"
)

// weekdayParam reads the :weekday path segment (0 = Sunday ... 6 = Saturday).
func weekdayParam(c *gin.Context) (int, bool) {
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		httperr.BadRequest(c, "invalid_weekday", "Weekday must be 0 (Sunday) through 6 (Saturday).")
		return 0, false
	}
	return weekday, true
}

// dateRangeQuery reads and validates ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func dateRangeQuery(c *gin.Context) (string, string, bool) {
	from := c.Query("from")
	to := c.Query("to")

	if _, err := schedule.ParseDate(from); err != nil {
		httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
		return "", "", false
	}
	if _, err := schedule.ParseDate(to); err != nil {
		httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD.")
		return "", "", false
	}

	return from, to, true
}

// idParam reads a numeric :id path segment.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identifier must be a positive integer.")
		return 0, false
	}
	return uint(id), true
}
