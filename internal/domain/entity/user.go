package entity

import "time"

// Roles de usuario dentro de una clínica.
const (
	RoleAdmin       = "admin"
	RoleVeterinario = "veterinario"
	RoleRecepcion   = "recepcion"
)

// User representa un usuario del sistema (staff de la clínica).
type User struct {
	ID           string
	ClinicID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string // ver constantes Role*
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
