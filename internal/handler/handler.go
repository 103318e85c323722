package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"attendify/internal/attendance"
	"attendify/internal/store"
	"attendify/internal/summary"
	"attendify/internal/view"
)

type Handler struct {
	store  *attendance.Store
	form   *attendance.Form
	ctrl   *view.Controller
	slot   store.Slot
	window int
	log    *slog.Logger
}

func New(s *attendance.Store, form *attendance.Form, ctrl *view.Controller, slot store.Slot, window int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: s, form: form, ctrl: ctrl, slot: slot, window: window, log: logger}
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	healthy := h.slot != nil && h.slot.Healthy(c.Request.Context())
	code, status := http.StatusOK, "ok"
	if !healthy {
		code, status = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{"status": status, "store": healthy, "records": h.store.Len()})
}

// ---------- Records ----------

type recordRequest struct {
	Name    string `json:"name" binding:"required"`
	Date    string `json:"date"`
	InTime  string `json:"inTime"`
	OutTime string `json:"outTime"`
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

func (h *Handler) ListRecords(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"records": view.Rows(h.store.Records())})
}

func (h *Handler) Draft(c *gin.Context) {
	c.JSON(http.StatusOK, h.form.Draft())
}

// CreateRecord submits a draft; omitted fields take the form defaults.
func (h *Handler) CreateRecord(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d := attendance.Draft{
		Name:    req.Name,
		Date:    req.Date,
		InTime:  req.InTime,
		OutTime: req.OutTime,
		Remarks: req.Remarks,
	}
	if req.Status != "" {
		st, err := attendance.ParseStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d.Status = st
	}

	rec, err := h.ctrl.Submit(c.Request.Context(), h.form.Fill(d))
	switch {
	case errors.Is(err, attendance.ErrNameRequired), errors.Is(err, attendance.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.Error("save record failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save record"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// DeleteRecord needs ?confirm=true; unknown ids still succeed.
func (h *Handler) DeleteRecord(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	err := h.ctrl.Delete(c.Request.Context(), c.Param("id"), confirmed)
	switch {
	case errors.Is(err, view.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Are you sure you want to delete this record? Repeat with confirm=true."})
		return
	case err != nil:
		h.log.Error("delete record failed", "error", err, "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete record"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Stats ----------

func (h *Handler) Stats(c *gin.Context) {
	window := h.window
	if v := c.Query("window"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be a positive integer"})
			return
		}
		window = parsed
	}
	c.JSON(http.StatusOK, attendance.BuildOverview(h.store.Records(), window))
}

// ---------- View ----------

type navigateRequest struct {
	View string `json:"view" binding:"required"`
}

func (h *Handler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

func (h *Handler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name, err := view.ParseName(req.View)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_ = h.ctrl.Navigate(name)
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

// ---------- Report ----------

func (h *Handler) GenerateReport(c *gin.Context) {
	err := h.ctrl.GenerateReport(c.Request.Context())
	switch {
	case errors.Is(err, view.ErrNoRecords):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Add some records first for the AI to analyze!"})
		return
	case errors.Is(err, summary.ErrInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "analysis already running", "report": h.ctrl.Report()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, h.ctrl.Report())
}

func (h *Handler) Report(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Report())
}
