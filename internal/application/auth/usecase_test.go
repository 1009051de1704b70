package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

const (
	testSecret   = "auth-test-secret"
	testPassword = "secreto-largo"
)

type memUsers struct{ byLogin map[string]*entity.User }

func (m *memUsers) Create(_ context.Context, u *entity.User) error { return nil }
func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range m.byLogin {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memUsers) GetByLoginName(_ context.Context, loginName string) (*entity.User, error) {
	u, ok := m.byLogin[loginName]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
func (m *memUsers) Update(_ context.Context, u *entity.User) error { return nil }
func (m *memUsers) List(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.User, error) {
	return nil, nil
}
func (m *memUsers) FindActiveByLoginName(_ context.Context, loginName string, role entity.Role) (*entity.User, error) {
	return nil, nil
}
func (m *memUsers) FindActiveByDisplayName(_ context.Context, displayName string, role entity.Role) (*entity.User, error) {
	return nil, nil
}

type memDenylist struct {
	mu     sync.Mutex
	denied map[string]time.Time
}

func (d *memDenylist) Deny(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.denied == nil {
		d.denied = make(map[string]time.Time)
	}
	d.denied[jti] = until
	return nil
}

func (d *memDenylist) Denied(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.denied[jti]
	return ok, nil
}

func seedUsers(t *testing.T, active bool) *memUsers {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &memUsers{byLogin: map[string]*entity.User{
		"JPEREZ": {
			ID: "tech-1", LoginName: "JPEREZ", DisplayName: "Juan Pérez",
			PasswordHash: string(hash), Role: entity.RoleMaintenanceOperator, Active: active,
		},
	}}
}

func buildAuthUC(t *testing.T, active bool, denylist auth.TokenDenylist) *auth.AuthUseCase {
	t.Helper()
	return auth.NewAuthUseCase(seedUsers(t, active), denylist, auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "mantto-pro-test",
	})
}

func TestLogin_CredencialesValidas_EmiteToken(t *testing.T) {
	uc := buildAuthUC(t, true, nil)

	out, err := uc.Login(context.Background(), dto.LoginRequest{LoginName: "JPEREZ", Password: testPassword})
	require.NoError(t, err)

	require.NotEmpty(t, out.Token)
	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "tech-1", claims.UserID)
	assert.Equal(t, string(entity.RoleMaintenanceOperator), claims.Role)
	assert.Equal(t, "JPEREZ", out.User.LoginName)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := buildAuthUC(t, true, nil)
	_, err := uc.Login(context.Background(), dto.LoginRequest{LoginName: "JPEREZ", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// El login es sensible a mayúsculas: "jperez" no es "JPEREZ".
func TestLogin_SensibleAMayusculas(t *testing.T) {
	uc := buildAuthUC(t, true, nil)
	_, err := uc.Login(context.Background(), dto.LoginRequest{LoginName: "jperez", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	uc := buildAuthUC(t, false, nil)
	_, err := uc.Login(context.Background(), dto.LoginRequest{LoginName: "JPEREZ", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrInactiveAccount)
}

func TestLogout_RevocaElJTI(t *testing.T) {
	denylist := &memDenylist{}
	uc := buildAuthUC(t, true, denylist)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginRequest{LoginName: "JPEREZ", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, out.Token))

	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	denied, err := denylist.Denied(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, denied, "el jti del token debe quedar en la denylist")
}

// Sin denylist configurada el logout es un no-op, nunca un error.
func TestLogout_SinDenylist_NoOp(t *testing.T) {
	uc := buildAuthUC(t, true, nil)
	assert.NoError(t, uc.Logout(context.Background(), "cualquier-cosa"))
}

func TestMe_DevuelvePerfil(t *testing.T) {
	uc := buildAuthUC(t, true, nil)
	out, err := uc.Me(context.Background(), "tech-1")
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", out.DisplayName)
}

func TestMe_UsuarioInexistente(t *testing.T) {
	uc := buildAuthUC(t, true, nil)
	_, err := uc.Me(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
