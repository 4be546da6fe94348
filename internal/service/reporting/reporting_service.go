package reporting

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/domain/models"
	"github.com/mamadbah2/dinopark/internal/repository/mongodb"
	"github.com/mamadbah2/dinopark/internal/service/keeper"
)

const dateLayout = "2006-01-02"

// ErrStorageDisabled is returned by lookups when no report repository is configured.
var ErrStorageDisabled = errors.New("report storage is disabled")

// StatsSource yields a consistent snapshot of the park aggregates.
type StatsSource interface {
	Snapshot() keeper.Stats
}

// Service turns park aggregates into reports and persists them.
type Service struct {
	park   StatsSource
	repo   mongodb.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance. repository may be nil,
// in which case reports are built but not stored.
func NewService(park StatsSource, repository mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{park: park, repo: repository, logger: logger, now: time.Now}
}

// BuildReport captures the current park figures.
func (s *Service) BuildReport() models.ParkReport {
	stats := s.park.Snapshot()

	report := models.ParkReport{
		ParkName:        stats.ParkName,
		TicketPrice:     stats.TicketPrice,
		DinosaurCount:   stats.DinosaurCount,
		VisitorsPerDay:  stats.VisitorsPerDay,
		VisitorsPerYear: stats.VisitorsPerYear,
		RevenuePerYear:  stats.RevenuePerYear,
		DietCounts:      stats.DietCounts,
		GeneratedAt:     s.now().UTC(),
	}
	if stats.MostAttractive != nil {
		top := stats.MostAttractive.Snapshot()
		report.MostAttractive = &top
	}
	return report
}

// FormatSummary renders a report as a short text message.
func (s *Service) FormatSummary(report models.ParkReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Park report for %s (%s)\n", report.ParkName, report.GeneratedAt.Format(dateLayout))
	fmt.Fprintf(&b, "Dinosaurs: %d\n", report.DinosaurCount)
	fmt.Fprintf(&b, "Visitors per day: %.2f\n", report.VisitorsPerDay)
	fmt.Fprintf(&b, "Visitors per year: %.2f\n", report.VisitorsPerYear)
	fmt.Fprintf(&b, "Revenue per year: %.2f\n", report.RevenuePerYear)

	if top := report.MostAttractive; top != nil {
		fmt.Fprintf(&b, "Star attraction: %s (%s, %.2f visitors/day)\n", top.Species, top.Diet, top.DailyAttraction)
	} else {
		b.WriteString("Star attraction: none yet\n")
	}

	b.WriteString("Diets: " + FormatDiets(report.DietCounts))
	return b.String()
}

// PublishDailyReport builds a report, stores it when storage is configured and
// returns its text summary.
func (s *Service) PublishDailyReport(ctx context.Context) (string, error) {
	report := s.BuildReport()

	if s.repo != nil {
		if err := s.repo.SaveParkReport(ctx, report); err != nil {
			return "", fmt.Errorf("save park report: %w", err)
		}
		s.logger.Info("park report stored", zap.String("park", report.ParkName), zap.Int("dinosaurs", report.DinosaurCount))
	} else {
		s.logger.Debug("report storage disabled, skipping save")
	}

	return s.FormatSummary(report), nil
}

// LatestReport returns the most recently stored report for this park.
func (s *Service) LatestReport(ctx context.Context) (*models.ParkReport, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}
	return s.repo.LatestParkReport(ctx, s.park.Snapshot().ParkName)
}

// FormatDiets lists diet counts sorted by diet name, e.g. "carnivore 1, herbivore 3".
func FormatDiets(counts map[models.Diet]int) string {
	if len(counts) == 0 {
		return "none"
	}

	parts := make([]string, 0, len(counts))
	for _, diet := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s %d", diet, counts[diet]))
	}
	return strings.Join(parts, ", ")
}
