package models

// Diet enumerates the feeding categories used to group dinosaurs.
type Diet string

const (
	DietCarnivore Diet = "carnivore"
	DietHerbivore Diet = "herbivore"
	DietOmnivore  Diet = "omnivore"
)

// Dinosaur is an immutable record describing one creature living in a park.
type Dinosaur struct {
	species         string
	diet            Diet
	dailyAttraction float64
}

// NewDinosaur builds a dinosaur record. Values are stored as given; callers are
// trusted to pass a known diet and a non-negative attraction figure.
func NewDinosaur(species string, diet Diet, dailyAttraction float64) *Dinosaur {
	return &Dinosaur{
		species:         species,
		diet:            diet,
		dailyAttraction: dailyAttraction,
	}
}

// Species returns the kind of creature, e.g. "T Rex".
func (d *Dinosaur) Species() string { return d.species }

// Diet returns the feeding category.
func (d *Dinosaur) Diet() Diet { return d.diet }

// DailyAttraction returns how many visitors this dinosaur draws per day.
func (d *Dinosaur) DailyAttraction() float64 { return d.dailyAttraction }

// DinosaurSnapshot is the serializable view of a Dinosaur.
type DinosaurSnapshot struct {
	Species         string  `bson:"species" json:"species"`
	Diet            Diet    `bson:"diet" json:"diet"`
	DailyAttraction float64 `bson:"daily_attraction" json:"daily_attraction"`
}

// Snapshot copies the record into its serializable form.
func (d *Dinosaur) Snapshot() DinosaurSnapshot {
	return DinosaurSnapshot{
		Species:         d.species,
		Diet:            d.diet,
		DailyAttraction: d.dailyAttraction,
	}
}
