package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/domain/models"
	"github.com/mamadbah2/dinopark/internal/domain/park"
	"github.com/mamadbah2/dinopark/internal/repository/mongodb"
	"github.com/mamadbah2/dinopark/internal/service/keeper"
	"github.com/mamadbah2/dinopark/internal/service/reporting"
)

// ParkService is the keeper surface exposed over HTTP.
type ParkService interface {
	Name() string
	TicketPrice() float64
	Len() int
	Dinosaurs() []*models.Dinosaur
	AddDinosaur(d *models.Dinosaur)
	RemoveDinosaurAt(index int) (*models.Dinosaur, error)
	RemoveDinosaursBySpecies(species string) int
	FindDinosaursBySpecies(species string) []*models.Dinosaur
	FindMostAttractiveDinosaur() (*models.Dinosaur, error)
	Snapshot() keeper.Stats
}

// ReportReader serves stored reports.
type ReportReader interface {
	LatestReport(ctx context.Context) (*models.ParkReport, error)
}

// RosterWriter records new arrivals in the roster sheet.
type RosterWriter interface {
	Append(ctx context.Context, d *models.Dinosaur) error
}

// ParkHandler serves the park collection and its statistics.
type ParkHandler struct {
	park    ParkService
	reports ReportReader
	roster  RosterWriter
	logger  *zap.Logger
}

// NewParkHandler constructs the HTTP handler adapter. roster may be nil.
func NewParkHandler(park ParkService, reports ReportReader, roster RosterWriter, logger *zap.Logger) *ParkHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParkHandler{park: park, reports: reports, roster: roster, logger: logger}
}

type addDinosaurRequest struct {
	Species         string      `json:"species" binding:"required"`
	Diet            models.Diet `json:"diet" binding:"required"`
	DailyAttraction *float64    `json:"daily_attraction" binding:"required,gte=0"`
}

type statsResponse struct {
	ParkName        string                   `json:"park_name"`
	TicketPrice     float64                  `json:"ticket_price"`
	DinosaurCount   int                      `json:"dinosaur_count"`
	VisitorsPerDay  float64                  `json:"visitors_per_day"`
	VisitorsPerYear float64                  `json:"visitors_per_year"`
	RevenuePerYear  float64                  `json:"revenue_per_year"`
	DietCounts      map[models.Diet]int      `json:"diet_counts"`
	MostAttractive  *models.DinosaurSnapshot `json:"most_attractive,omitempty"`
}

// Park describes the park itself.
func (h *ParkHandler) Park(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":           h.park.Name(),
		"ticket_price":   h.park.TicketPrice(),
		"dinosaur_count": h.park.Len(),
	})
}

// ListDinosaurs lists the collection, or only one species when ?species= is given.
func (h *ParkHandler) ListDinosaurs(c *gin.Context) {
	if species, ok := c.GetQuery("species"); ok {
		c.JSON(http.StatusOK, snapshots(h.park.FindDinosaursBySpecies(species)))
		return
	}
	c.JSON(http.StatusOK, snapshots(h.park.Dinosaurs()))
}

// AddDinosaur adds a dinosaur to the end of the collection.
func (h *ParkHandler) AddDinosaur(c *gin.Context) {
	var req addDinosaurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid dinosaur payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	d := models.NewDinosaur(req.Species, req.Diet, *req.DailyAttraction)
	h.park.AddDinosaur(d)

	if h.roster != nil {
		if err := h.roster.Append(c.Request.Context(), d); err != nil {
			h.logger.Warn("roster append failed", zap.String("species", d.Species()), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, d.Snapshot())
}

// RemoveDinosaur removes the record at the :index position.
func (h *ParkHandler) RemoveDinosaur(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	removed, err := h.park.RemoveDinosaurAt(index)
	if errors.Is(err, keeper.ErrIndexOutOfRange) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("failed removing dinosaur", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove dinosaur"})
		return
	}

	c.JSON(http.StatusOK, removed.Snapshot())
}

// RemoveSpecies removes every dinosaur of ?species=.
func (h *ParkHandler) RemoveSpecies(c *gin.Context) {
	species, ok := c.GetQuery("species")
	if !ok || species == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "species query parameter is required"})
		return
	}

	removed := h.park.RemoveDinosaursBySpecies(species)
	c.JSON(http.StatusOK, gin.H{"species": species, "removed": removed})
}

// MostAttractive returns the dinosaur drawing the most visitors.
func (h *ParkHandler) MostAttractive(c *gin.Context) {
	top, err := h.park.FindMostAttractiveDinosaur()
	if errors.Is(err, park.ErrNoDinosaurs) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("failed ranking dinosaurs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rank dinosaurs"})
		return
	}

	c.JSON(http.StatusOK, top.Snapshot())
}

// Stats returns visitor and revenue projections plus diet counts.
func (h *ParkHandler) Stats(c *gin.Context) {
	stats := h.park.Snapshot()

	resp := statsResponse{
		ParkName:        stats.ParkName,
		TicketPrice:     stats.TicketPrice,
		DinosaurCount:   stats.DinosaurCount,
		VisitorsPerDay:  stats.VisitorsPerDay,
		VisitorsPerYear: stats.VisitorsPerYear,
		RevenuePerYear:  stats.RevenuePerYear,
		DietCounts:      stats.DietCounts,
	}
	if stats.MostAttractive != nil {
		top := stats.MostAttractive.Snapshot()
		resp.MostAttractive = &top
	}

	c.JSON(http.StatusOK, resp)
}

// LatestReport returns the last stored daily report.
func (h *ParkHandler) LatestReport(c *gin.Context) {
	report, err := h.reports.LatestReport(c.Request.Context())
	switch {
	case errors.Is(err, mongodb.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no report stored yet"})
		return
	case errors.Is(err, reporting.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error("failed loading latest report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func snapshots(dinosaurs []*models.Dinosaur) []models.DinosaurSnapshot {
	out := make([]models.DinosaurSnapshot, 0, len(dinosaurs))
	for _, d := range dinosaurs {
		out = append(out, d.Snapshot())
	}
	return out
}
