package dto

import "time"

// CreateOwnerRequest body para POST /api/owners.
type CreateOwnerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// OwnerResponse propietario en respuestas.
type OwnerResponse struct {
	ID        string `json:"id"`
	ClinicID  string `json:"clinic_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// CreatePetRequest body para POST /api/pets.
type CreatePetRequest struct {
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// PetResponse mascota en respuestas.
type PetResponse struct {
	ID        string     `json:"id"`
	ClinicID  string     `json:"clinic_id"`
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}
