package models

import "time"

// ParkReport represents the aggregated park figures to be stored in MongoDB.
type ParkReport struct {
	ParkName        string            `bson:"park_name" json:"park_name"`
	TicketPrice     float64           `bson:"ticket_price" json:"ticket_price"`
	DinosaurCount   int               `bson:"dinosaur_count" json:"dinosaur_count"`
	VisitorsPerDay  float64           `bson:"visitors_per_day" json:"visitors_per_day"`
	VisitorsPerYear float64           `bson:"visitors_per_year" json:"visitors_per_year"`
	RevenuePerYear  float64           `bson:"revenue_per_year" json:"revenue_per_year"`
	DietCounts      map[Diet]int      `bson:"diet_counts" json:"diet_counts"`
	MostAttractive  *DinosaurSnapshot `bson:"most_attractive,omitempty" json:"most_attractive,omitempty"`
	GeneratedAt     time.Time         `bson:"generated_at" json:"generated_at"`
}
