package entity

import "time"

// Pet representa una mascota registrada en la clínica.
type Pet struct {
	ID        string
	ClinicID  string
	OwnerID   string
	Name      string
	Species   string // canino, felino, ave, exótico...
	Breed     string
	BirthDate *time.Time // nil si se desconoce
	CreatedAt time.Time
	UpdatedAt time.Time
}
