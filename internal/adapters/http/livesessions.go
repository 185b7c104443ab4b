package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tutorarc/backend/internal/session"
)

// LiveSessionHandlers exposes CRUD over persisted live-session records.
type LiveSessionHandlers struct {
	Store session.Store
}

type liveSessionRequest struct {
	UserURL string `json:"userurl"`
}

func (h *LiveSessionHandlers) Create(c *gin.Context) {
	var req liveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "userurl is required",
		})
		return
	}

	row, err := h.Store.Create(c.Request.Context(), req.UserURL)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create live session")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error creating live session",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Live session created successfully",
		"data":    row,
	})
}

func (h *LiveSessionHandlers) List(c *gin.Context) {
	rows, err := h.Store.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list live sessions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error fetching live sessions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(rows),
		"data":    rows,
	})
}

func (h *LiveSessionHandlers) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	row, err := h.Store.Get(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Live session not found",
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("get live session")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error fetching live session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    row,
	})
}

func (h *LiveSessionHandlers) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req liveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "userurl is required",
		})
		return
	}

	row, err := h.Store.Update(c.Request.Context(), id, req.UserURL)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Live session not found",
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("update live session")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error updating live session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Live session updated successfully",
		"data":    row,
	})
}

func (h *LiveSessionHandlers) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	row, err := h.Store.Delete(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Live session not found",
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("delete live session")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error deleting live session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Live session deleted successfully",
		"data":    row,
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid id",
		})
		return 0, false
	}
	return id, true
}
