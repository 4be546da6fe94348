package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/domain/models"
	"github.com/mamadbah2/dinopark/internal/domain/park"
	"github.com/mamadbah2/dinopark/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// ParkOperator is the slice of the keeper the dispatcher drives.
type ParkOperator interface {
	AddDinosaur(d *models.Dinosaur)
	RemoveDinosaursBySpecies(species string) int
	FindDinosaursBySpecies(species string) []*models.Dinosaur
	FindMostAttractiveDinosaur() (*models.Dinosaur, error)
	CountDinosaursByDiet() map[models.Diet]int
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	BuildReport() models.ParkReport
	FormatSummary(report models.ParkReport) string
}

// RosterWriter records new arrivals in the roster sheet.
type RosterWriter interface {
	Append(ctx context.Context, d *models.Dinosaur) error
}

// Dispatcher executes parsed keeper commands against the park.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	park      ParkOperator
	reporting ReportingAdapter
	roster    RosterWriter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher. roster may be nil when the
// roster sheet is not configured.
func NewService(park ParkOperator, reporting ReportingAdapter, roster RosterWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		park:      park,
		reporting: reporting,
		roster:    roster,
		logger:    logger,
	}
}

// HandleCommand runs cmd and returns the reply text for the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandAdd:
		d, err := buildDinosaur(cmd.Args)
		if err != nil {
			return "", err
		}
		s.park.AddDinosaur(d)
		if s.roster != nil {
			if err := s.roster.Append(ctx, d); err != nil {
				s.logger.Warn("roster append failed", zap.String("species", d.Species()), zap.Error(err))
			}
		}
		return fmt.Sprintf("Added %s (%s, %.2f visitors/day).", d.Species(), d.Diet(), d.DailyAttraction()), nil
	case models.CommandRemove:
		species, err := speciesArg(cmd.Args)
		if err != nil {
			return "", err
		}
		removed := s.park.RemoveDinosaursBySpecies(species)
		return fmt.Sprintf("Removed %d %s.", removed, species), nil
	case models.CommandFind:
		species, err := speciesArg(cmd.Args)
		if err != nil {
			return "", err
		}
		return formatFound(species, s.park.FindDinosaursBySpecies(species)), nil
	case models.CommandTop:
		top, err := s.park.FindMostAttractiveDinosaur()
		if errors.Is(err, park.ErrNoDinosaurs) {
			return "No dinosaurs in the park yet.", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Star attraction: %s (%s, %.2f visitors/day).", top.Species(), top.Diet(), top.DailyAttraction()), nil
	case models.CommandStats:
		return s.reporting.FormatSummary(s.reporting.BuildReport()), nil
	case models.CommandDiets:
		return "Diets: " + reporting.FormatDiets(s.park.CountDinosaursByDiet()), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// buildDinosaur parses "<species...> <diet> <attraction>". The species may
// span several words.
func buildDinosaur(args []string) (*models.Dinosaur, error) {
	if len(args) < 3 {
		return nil, ErrInvalidArguments
	}

	attraction, err := strconv.ParseFloat(args[len(args)-1], 64)
	if err != nil || attraction < 0 || math.IsNaN(attraction) || math.IsInf(attraction, 0) {
		return nil, ErrInvalidArguments
	}

	diet := models.Diet(args[len(args)-2])
	species := strings.Join(args[:len(args)-2], " ")
	return models.NewDinosaur(species, diet, attraction), nil
}

func speciesArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrInvalidArguments
	}
	return strings.Join(args, " "), nil
}

func formatFound(species string, found []*models.Dinosaur) string {
	if len(found) == 0 {
		return fmt.Sprintf("No %s in the park.", species)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d found", species, len(found))
	for i, d := range found {
		fmt.Fprintf(&b, "\n%d. %s (%s, %.2f visitors/day)", i+1, d.Species(), d.Diet(), d.DailyAttraction())
	}
	return b.String()
}
