package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/veterinaria-api/internal/application/dto"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
	"github.com/jhoicas/veterinaria-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: registro y login del staff de la
// clínica. El token resultante lleva clinic_id, que es el tenant con el que
// se filtran todas las operaciones de facturación.
type UseCase struct {
	userRepo   repository.UserRepository
	clinicRepo repository.ClinicRepository
	jwtCfg     JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, clinicRepo repository.ClinicRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, clinicRepo: clinicRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe en esa clínica.
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.ClinicID == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.userRepo.GetByEmailAndClinic(in.Email, in.ClinicID)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	clinic, err := uc.clinicRepo.GetByID(in.ClinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, domain.ErrNotFound // la clínica no existe
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleRecepcion
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		ClinicID:     in.ClinicID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return &dto.UserResponse{
		ID:       user.ID,
		ClinicID: user.ClinicID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
	}, nil
}

// Login valida credenciales y devuelve un JWT con user_id, clinic_id y role.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.ClinicID == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByEmailAndClinic(in.Email, in.ClinicID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.ClinicID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:       user.ID,
			ClinicID: user.ClinicID,
			Email:    user.Email,
			Name:     user.Name,
			Role:     user.Role,
		},
	}, nil
}
