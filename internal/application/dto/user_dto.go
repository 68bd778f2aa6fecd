package dto

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	ClinicID string `json:"clinic_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"` // admin | veterinario | recepcion
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	ClinicID string `json:"clinic_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuario en respuestas (sin hash).
type UserResponse struct {
	ID       string `json:"id"`
	ClinicID string `json:"clinic_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginResponse token más datos del usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
