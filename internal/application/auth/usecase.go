package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenDenylist invalida tokens emitidos antes de su expiración (logout).
// Nil deshabilita la denylist: el logout pasa a ser solo informativo.
type TokenDenylist interface {
	Deny(ctx context.Context, jti string, until time.Time) error
	Denied(ctx context.Context, jti string) (bool, error)
}

// AuthUseCase autenticación: login contra credenciales locales, emisión y
// revocación de tokens.
type AuthUseCase struct {
	userRepo repository.UserRepository
	denylist TokenDenylist
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, denylist TokenDenylist, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, denylist: denylist, jwtCfg: jwtCfg}
}

// Login verifica login_name/password, exige cuenta activa y genera el JWT.
// El login es sensible a mayúsculas: "JPEREZ" y "jperez" son cuentas distintas.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByLoginName(ctx, in.LoginName)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.CanAuthenticate() {
		return nil, domain.ErrInactiveAccount
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// Logout revoca el token actual metiendo su jti en la denylist hasta que
// expire por sí solo. Sin denylist configurada es un no-op.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenString string) error {
	if uc.denylist == nil {
		return nil
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, tokenString)
	if err != nil {
		return domain.ErrUnauthorized
	}
	until := time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := uc.denylist.Deny(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// Me devuelve el perfil del actor autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		LoginName:   u.LoginName,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        string(u.Role),
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
