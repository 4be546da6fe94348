// Package park holds the Park aggregate: an ordered collection of dinosaurs
// and the visitor and revenue projections derived from it.
//
// A Park is not safe for concurrent use. Callers sharing one across goroutines
// must guard it, see internal/service/keeper.
package park

import (
	"errors"
	"slices"

	"github.com/mamadbah2/dinopark/internal/domain/models"
)

// DaysPerYear converts daily visitor totals into yearly ones, averaging leap years in.
const DaysPerYear = 365.25

// ErrNoDinosaurs is returned by queries that need at least one dinosaur.
var ErrNoDinosaurs = errors.New("park has no dinosaurs")

// Park owns an insertion-ordered collection of dinosaurs.
type Park struct {
	name        string
	ticketPrice float64
	dinosaurs   []*models.Dinosaur
}

// New creates an empty park.
func New(name string, ticketPrice float64) *Park {
	return &Park{
		name:        name,
		ticketPrice: ticketPrice,
		dinosaurs:   []*models.Dinosaur{},
	}
}

// Name returns the park name.
func (p *Park) Name() string { return p.name }

// TicketPrice returns the price paid by one visitor for one day.
func (p *Park) TicketPrice() float64 { return p.ticketPrice }

// Len returns the number of dinosaurs in the park.
func (p *Park) Len() int { return len(p.dinosaurs) }

// Dinosaurs returns the collection in insertion order. The slice is a copy;
// changing it does not affect the park.
func (p *Park) Dinosaurs() []*models.Dinosaur {
	out := make([]*models.Dinosaur, len(p.dinosaurs))
	copy(out, p.dinosaurs)
	return out
}

// AddDinosaur appends d to the collection. Duplicates are allowed.
func (p *Park) AddDinosaur(d *models.Dinosaur) {
	p.dinosaurs = append(p.dinosaurs, d)
}

// RemoveDinosaur removes the first occurrence of d, compared by identity.
// Records with equal fields but a different identity are left alone.
// It is a no-op when d is not in the park.
func (p *Park) RemoveDinosaur(d *models.Dinosaur) {
	for i, candidate := range p.dinosaurs {
		if candidate == d {
			p.dinosaurs = slices.Delete(p.dinosaurs, i, i+1)
			return
		}
	}
}

// RemoveDinosaursBySpecies removes every dinosaur whose species equals species exactly.
func (p *Park) RemoveDinosaursBySpecies(species string) {
	p.dinosaurs = slices.DeleteFunc(p.dinosaurs, func(d *models.Dinosaur) bool {
		return d.Species() == species
	})
}

// FindDinosaursBySpecies returns the dinosaurs of the given species in
// insertion order, or an empty slice when there are none.
func (p *Park) FindDinosaursBySpecies(species string) []*models.Dinosaur {
	found := []*models.Dinosaur{}
	for _, d := range p.dinosaurs {
		if d.Species() == species {
			found = append(found, d)
		}
	}
	return found
}

// FindMostAttractiveDinosaur returns the dinosaur with the highest daily
// attraction. Ties go to the one added first. It returns ErrNoDinosaurs when
// the park is empty.
func (p *Park) FindMostAttractiveDinosaur() (*models.Dinosaur, error) {
	if len(p.dinosaurs) == 0 {
		return nil, ErrNoDinosaurs
	}

	best := p.dinosaurs[0]
	for _, d := range p.dinosaurs[1:] {
		// strict comparison keeps the first occurrence on ties
		if d.DailyAttraction() > best.DailyAttraction() {
			best = d
		}
	}
	return best, nil
}

// TotalVisitorsPerDay sums the daily attraction of every dinosaur.
func (p *Park) TotalVisitorsPerDay() float64 {
	var total float64
	for _, d := range p.dinosaurs {
		total += d.DailyAttraction()
	}
	return total
}

// TotalVisitorsPerYear projects daily visitors over DaysPerYear days.
func (p *Park) TotalVisitorsPerYear() float64 {
	return p.TotalVisitorsPerDay() * DaysPerYear
}

// TotalRevenuePerYear is the yearly visitor projection times the ticket price.
func (p *Park) TotalRevenuePerYear() float64 {
	return p.TotalVisitorsPerYear() * p.ticketPrice
}

// CountDinosaursByDiet counts dinosaurs per diet. Diets with no dinosaurs are
// absent from the result.
func (p *Park) CountDinosaursByDiet() map[models.Diet]int {
	counts := make(map[models.Diet]int)
	for _, d := range p.dinosaurs {
		counts[d.Diet()]++
	}
	return counts
}
