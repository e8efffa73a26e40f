package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
)

// RunsHandler serves the /runs endpoints.
type RunsHandler struct {
	service *RunService
}

// NewRunsHandler creates a handler.
func NewRunsHandler(service *RunService) *RunsHandler {
	return &RunsHandler{service: service}
}

// StartRun handles POST /runs. An empty body starts an unfiltered run.
func (h *RunsHandler) StartRun(c *gin.Context) {
	var p profile.Profile
	if err := c.ShouldBindJSON(&p); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "invalid profile: "+err.Error())
		return
	}

	run, err := h.service.Start(p)
	if errors.Is(err, crawler.ErrRunInProgress) {
		respondError(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run_id": run.ID()})
}

// CancelRun handles DELETE /runs/current.
func (h *RunsHandler) CancelRun(c *gin.Context) {
	if err := h.service.Cancel(); err != nil {
		respondNotFound(c, "active run")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
}

// GetRun handles GET /runs/current.
func (h *RunsHandler) GetRun(c *gin.Context) {
	run, ok := h.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":   run.State(),
		"profile": run.Profile(),
	})
}

// ListRecords handles GET /runs/current/records.
func (h *RunsHandler) ListRecords(c *gin.Context) {
	run, ok := h.current(c)
	if !ok {
		return
	}
	records := run.Sink().All()
	c.JSON(http.StatusOK, gin.H{"records": records, "total": len(records)})
}

// GetRecord handles GET /runs/current/records/:seq. With open=1 it
// redirects to the listing.
func (h *RunsHandler) GetRecord(c *gin.Context) {
	run, ok := h.current(c)
	if !ok {
		return
	}

	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil {
		respondBadRequest(c, "sequence id must be an integer")
		return
	}

	record, found := run.Sink().Get(seq)
	if !found {
		respondNotFound(c, "record")
		return
	}

	if open, _ := strconv.ParseBool(c.Query("open")); open {
		c.Redirect(http.StatusFound, record.Link)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *RunsHandler) current(c *gin.Context) (*crawler.Run, bool) {
	run, err := h.service.Current()
	if err != nil {
		respondNotFound(c, "run")
		return nil, false
	}
	return run, true
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

func respondInternalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, message)
}
