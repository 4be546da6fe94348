package roster

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/domain/models"
	repo "github.com/mamadbah2/dinopark/internal/repository/sheets"
)

// rosterRange holds one dinosaur per row: species, diet, daily attraction.
const rosterRange = "Dinosaurs!A:C"

// ParkWriter is the part of the keeper the roster needs.
type ParkWriter interface {
	AddDinosaur(d *models.Dinosaur)
}

// Service keeps the park collection in step with the roster spreadsheet.
type Service struct {
	repo   repo.Repository
	park   ParkWriter
	logger *zap.Logger
}

// NewService wires a roster service instance.
func NewService(repository repo.Repository, park ParkWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, park: park, logger: logger}
}

// Load reads the roster sheet and adds every valid row to the park, in sheet
// order. Header and malformed rows are skipped. It returns how many dinosaurs
// were added.
func (s *Service) Load(ctx context.Context) (int, error) {
	rows, err := s.repo.ReadRange(ctx, rosterRange)
	if err != nil {
		return 0, fmt.Errorf("load roster range: %w", err)
	}

	var added int
	for i, row := range rows {
		d, err := parseRow(row)
		if err != nil {
			s.logger.Debug("skip roster row", zap.Int("row", i+1), zap.Any("values", row), zap.Error(err))
			continue
		}
		s.park.AddDinosaur(d)
		added++
	}

	s.logger.Info("roster loaded", zap.Int("dinosaurs", added), zap.Int("rows", len(rows)))
	return added, nil
}

// Append records a newly arrived dinosaur at the bottom of the roster sheet.
func (s *Service) Append(ctx context.Context, d *models.Dinosaur) error {
	values := []interface{}{d.Species(), string(d.Diet()), d.DailyAttraction()}
	if err := s.repo.WriteRow(ctx, rosterRange, values); err != nil {
		return fmt.Errorf("append roster row: %w", err)
	}
	return nil
}

func parseRow(row []interface{}) (*models.Dinosaur, error) {
	if len(row) < 3 {
		return nil, fmt.Errorf("expected 3 columns, got %d", len(row))
	}

	species := strings.TrimSpace(fmt.Sprint(row[0]))
	if species == "" {
		return nil, fmt.Errorf("empty species")
	}

	attraction, err := parseFloat(row[2])
	if err != nil {
		return nil, err
	}
	if attraction < 0 {
		return nil, fmt.Errorf("negative attraction %v", attraction)
	}
	if math.IsNaN(attraction) || math.IsInf(attraction, 0) {
		return nil, fmt.Errorf("non-finite attraction %v", attraction)
	}

	diet := models.Diet(strings.TrimSpace(fmt.Sprint(row[1])))
	return models.NewDinosaur(species, diet, attraction), nil
}

func parseFloat(value interface{}) (float64, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(str, 64)
}
