package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/names"
)

// UserUseCase administra usuarios aplicando la política de dominio por encima
// del RBAC genérico:
//   - un supervisor administra cualquier usuario EXCEPTO otorgar o tocar el
//     rol SUPER_USER;
//   - nadie desactiva su propia cuenta, ni siquiera un supervisor sobre sí mismo;
//   - la cuenta SUPER_USER no puede ser desactivada por nadie.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario: hashea el password con bcrypt, deriva el login del
// nombre mostrado si no viene, y persiste. El rol SUPER_USER solo puede
// otorgarlo otro SUPER_USER.
func (uc *UserUseCase) Create(ctx context.Context, actor Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: rol %q fuera de rango", domain.ErrInvalidInput, in.Role)
	}
	if role == entity.RoleSuperUser && actor.Role != entity.RoleSuperUser {
		return nil, fmt.Errorf("%w: no se puede otorgar el rol Super Usuario", domain.ErrForbidden)
	}
	loginName := in.LoginName
	if loginName == "" {
		loginName = names.DeriveLoginName(in.DisplayName)
	}
	if loginName == "" {
		return nil, fmt.Errorf("%w: login_name requerido", domain.ErrInvalidInput)
	}
	if existing, err := uc.repo.GetByLoginName(ctx, loginName); err != nil {
		return nil, fmt.Errorf("verificar login: %w", err)
	} else if existing != nil {
		return nil, domain.ErrLoginTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		LoginName:    loginName,
		DisplayName:  in.DisplayName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Update aplica un parche parcial respetando la política de protección del
// Super Usuario y la prohibición de auto-desactivación.
func (uc *UserUseCase) Update(ctx context.Context, actor Actor, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.mustGet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkPolicy(actor, user, in); err != nil {
		return nil, err
	}
	if in.DisplayName != nil {
		user.DisplayName = *in.DisplayName
	}
	if in.Email != nil {
		user.Email = in.Email
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != nil {
		user.Role = entity.Role(*in.Role)
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("actualizar usuario: %w", err)
	}
	return toUserResponse(user), nil
}

// Deactivate baja lógica de la cuenta (Active=false). Misma política que Update.
func (uc *UserUseCase) Deactivate(ctx context.Context, actor Actor, userID string) error {
	inactive := false
	_, err := uc.Update(ctx, actor, userID, dto.UpdateUserRequest{Active: &inactive})
	return err
}

// checkPolicy concentra las reglas de negocio que van por encima del chequeo
// genérico de roles; se evalúa completa antes de tocar la entidad.
func (uc *UserUseCase) checkPolicy(actor Actor, target *entity.User, in dto.UpdateUserRequest) error {
	// Tocar una cuenta SUPER_USER, o conceder ese rol, es exclusivo del propio
	// SUPER_USER. Distinto del 403 genérico: aquí el rol del actor sí alcanzaba.
	if target.Role == entity.RoleSuperUser && actor.Role != entity.RoleSuperUser {
		return fmt.Errorf("%w: no se puede modificar el Super Usuario", domain.ErrForbidden)
	}
	if in.Role != nil {
		newRole := entity.Role(*in.Role)
		if !newRole.Valid() {
			return fmt.Errorf("%w: rol %q fuera de rango", domain.ErrInvalidInput, *in.Role)
		}
		if newRole == entity.RoleSuperUser && actor.Role != entity.RoleSuperUser {
			return fmt.Errorf("%w: no se puede otorgar el rol Super Usuario", domain.ErrForbidden)
		}
	}
	if in.Active != nil && !*in.Active {
		// Nadie se desactiva a sí mismo, sin importar el rol.
		if target.ID == actor.ID {
			return fmt.Errorf("%w: no puede desactivar su propia cuenta", domain.ErrForbidden)
		}
		// La cuenta SUPER_USER nunca se desactiva, la toque quien la toque.
		if target.Role == entity.RoleSuperUser {
			return fmt.Errorf("%w: la cuenta Super Usuario no puede desactivarse", domain.ErrForbidden)
		}
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List lista usuarios; onlyActive filtra bajas lógicas con el predicado único
// de cuentas activas.
func (uc *UserUseCase) List(ctx context.Context, onlyActive bool, page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.List(ctx, onlyActive, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

func (uc *UserUseCase) mustGet(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
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
