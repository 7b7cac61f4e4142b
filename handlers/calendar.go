package handlers

import (
	"net/http"
	"strconv"
	"time"

	appointmentRepo "calendra/database/repository/appointment"
	"calendra/models"
	"calendra/services/calendar"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetSlotsHandler lists available slots for a date. Query parameters:
// date (YYYY-MM-DD, defaults to today), duration (minutes) and preference
// (morning, afternoon, evening).
func GetSlotsHandler(engine *calendar.Engine, defaultDuration int) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		date := time.Now()
		if raw := c.Query("date"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
				return
			}
			date = parsed
		}

		duration := defaultDuration
		if raw := c.Query("duration"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration"})
				return
			}
			duration = parsed
		}

		pref := models.TimePreference(c.Query("preference"))

		slots, err := engine.AvailableSlots(c.Request.Context(), date, duration, pref, true)
		if err != nil {
			logger.Error("Failed to compute slots", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute slots"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"date":  date.Format("2006-01-02"),
			"slots": slots,
		})
	}
}

// GetAppointmentsHandler lists all stored appointments.
func GetAppointmentsHandler(repo appointmentRepo.AppointmentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		appointments, err := repo.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list appointments", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list appointments"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"appointments": appointments, "count": len(appointments)})
	}
}

// GetAnalyticsHandler returns booking statistics for the current week.
func GetAnalyticsHandler(repo appointmentRepo.AppointmentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		analytics, err := repo.Analytics(c.Request.Context(), time.Now())
		if err != nil {
			logger.Error("Failed to compute analytics", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
			return
		}

		c.JSON(http.StatusOK, analytics)
	}
}
