package entity

import "time"

// Clinic representa una clínica veterinaria (tenant del sistema).
// Todo dato de facturación e inventario se particiona por ClinicID.
type Clinic struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
