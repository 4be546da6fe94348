package keeper

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/domain/models"
	"github.com/mamadbah2/dinopark/internal/domain/park"
)

// ErrIndexOutOfRange indicates a positional lookup past the end of the collection.
var ErrIndexOutOfRange = errors.New("dinosaur index out of range")

// Stats is a consistent view of every park aggregate taken under one lock.
type Stats struct {
	ParkName        string
	TicketPrice     float64
	DinosaurCount   int
	VisitorsPerDay  float64
	VisitorsPerYear float64
	RevenuePerYear  float64
	DietCounts      map[models.Diet]int
	MostAttractive  *models.Dinosaur
}

// Keeper serializes access to a single park shared by the HTTP server, the
// webhook and the scheduler.
type Keeper struct {
	park   *park.Park
	mu     sync.RWMutex
	logger *zap.Logger
}

// New wraps p. The caller must not touch p directly afterwards.
func New(p *park.Park, logger *zap.Logger) *Keeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Keeper{park: p, logger: logger}
}

// Name returns the park name.
func (k *Keeper) Name() string { return k.park.Name() }

// TicketPrice returns the park ticket price.
func (k *Keeper) TicketPrice() float64 { return k.park.TicketPrice() }

// Len returns the number of dinosaurs.
func (k *Keeper) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.park.Len()
}

// Dinosaurs returns a copy of the collection in insertion order.
func (k *Keeper) Dinosaurs() []*models.Dinosaur {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.park.Dinosaurs()
}

// AddDinosaur appends d.
func (k *Keeper) AddDinosaur(d *models.Dinosaur) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.park.AddDinosaur(d)
	k.logger.Debug("dinosaur added", zap.String("species", d.Species()), zap.String("diet", string(d.Diet())), zap.Float64("daily_attraction", d.DailyAttraction()))
}

// RemoveDinosaur removes the first occurrence of d by identity.
func (k *Keeper) RemoveDinosaur(d *models.Dinosaur) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.park.RemoveDinosaur(d)
}

// RemoveDinosaurAt removes the dinosaur currently at index and returns it.
func (k *Keeper) RemoveDinosaurAt(index int) (*models.Dinosaur, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	dinosaurs := k.park.Dinosaurs()
	if index < 0 || index >= len(dinosaurs) {
		return nil, fmt.Errorf("remove index %d of %d: %w", index, len(dinosaurs), ErrIndexOutOfRange)
	}

	target := dinosaurs[index]
	k.park.RemoveDinosaur(target)
	k.logger.Debug("dinosaur removed", zap.Int("index", index), zap.String("species", target.Species()))
	return target, nil
}

// RemoveDinosaursBySpecies removes every dinosaur of species and reports how many went.
func (k *Keeper) RemoveDinosaursBySpecies(species string) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	before := k.park.Len()
	k.park.RemoveDinosaursBySpecies(species)
	removed := before - k.park.Len()
	k.logger.Debug("species removed", zap.String("species", species), zap.Int("removed", removed))
	return removed
}

// FindDinosaursBySpecies returns the matching dinosaurs in insertion order.
func (k *Keeper) FindDinosaursBySpecies(species string) []*models.Dinosaur {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.park.FindDinosaursBySpecies(species)
}

// FindMostAttractiveDinosaur returns park.ErrNoDinosaurs when empty.
func (k *Keeper) FindMostAttractiveDinosaur() (*models.Dinosaur, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.park.FindMostAttractiveDinosaur()
}

// CountDinosaursByDiet counts dinosaurs per diet present.
func (k *Keeper) CountDinosaursByDiet() map[models.Diet]int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.park.CountDinosaursByDiet()
}

// Snapshot computes all aggregates against the same collection state.
func (k *Keeper) Snapshot() Stats {
	k.mu.RLock()
	defer k.mu.RUnlock()

	stats := Stats{
		ParkName:        k.park.Name(),
		TicketPrice:     k.park.TicketPrice(),
		DinosaurCount:   k.park.Len(),
		VisitorsPerDay:  k.park.TotalVisitorsPerDay(),
		VisitorsPerYear: k.park.TotalVisitorsPerYear(),
		RevenuePerYear:  k.park.TotalRevenuePerYear(),
		DietCounts:      k.park.CountDinosaursByDiet(),
	}
	if top, err := k.park.FindMostAttractiveDinosaur(); err == nil {
		stats.MostAttractive = top
	}
	return stats
}
