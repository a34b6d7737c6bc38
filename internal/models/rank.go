package models

// Rank is static reference data: one row per tier, seeded once and never
// mutated at runtime. MaxEnergy caps regenerated energy, EnergyPerSec is the
// regen rate, PressForce scales mining earnings, Price is the upgrade cost.
type Rank struct {
	ID           uint    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	League       int64   `gorm:"not null" json:"league"`
	Name         string  `gorm:"size:50;not null" json:"name"`
	PressForce   float64 `gorm:"not null" json:"press_force"`
	MaxEnergy    float64 `gorm:"not null" json:"max_energy"`
	EnergyPerSec float64 `gorm:"not null" json:"energy_per_sec"`
	Price        int64   `gorm:"not null" json:"price"`
}

// TableName specifies the table name for Rank model
func (Rank) TableName() string {
	return "ranks"
}

// DefaultRanks returns the ten fixed tiers seeded at migration time.
func DefaultRanks() []Rank {
	return []Rank{
		{ID: 1, League: 1, Name: "Acolyte", PressForce: 1, MaxEnergy: 2000, EnergyPerSec: 1, Price: 0},
		{ID: 2, League: 1, Name: "Deacon", PressForce: 2, MaxEnergy: 2500, EnergyPerSec: 1, Price: 5000},
		{ID: 3, League: 1, Name: "Priest", PressForce: 3, MaxEnergy: 3000, EnergyPerSec: 1.5, Price: 15000},
		{ID: 4, League: 2, Name: "Bishop", PressForce: 4, MaxEnergy: 3500, EnergyPerSec: 1.5, Price: 40000},
		{ID: 5, League: 2, Name: "Archbishop", PressForce: 5, MaxEnergy: 4000, EnergyPerSec: 2, Price: 100000},
		{ID: 6, League: 2, Name: "Metropolitan", PressForce: 6, MaxEnergy: 4500, EnergyPerSec: 2, Price: 250000},
		{ID: 7, League: 3, Name: "Cardinal", PressForce: 8, MaxEnergy: 5000, EnergyPerSec: 2.5, Price: 600000},
		{ID: 8, League: 3, Name: "Pontiff", PressForce: 10, MaxEnergy: 6000, EnergyPerSec: 3, Price: 1500000},
		{ID: 9, League: 4, Name: "Seraph", PressForce: 13, MaxEnergy: 7500, EnergyPerSec: 4, Price: 4000000},
		{ID: 10, League: 4, Name: "Demiurge", PressForce: 16, MaxEnergy: 10000, EnergyPerSec: 5, Price: 10000000},
	}
}
