package auth

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-dashboard/pkg/jwt"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Login(ctx context.Context, email, password string) (*repository.RemoteTokens, error) {
	args := m.Called(ctx, email, password)
	if t := args.Get(0); t != nil {
		return t.(*repository.RemoteTokens), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAccountStore) Register(ctx context.Context, in repository.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, in)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) Profile(ctx context.Context, a repository.Authenticator) (*entity.User, error) {
	args := m.Called(ctx, a)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) UpdateProfile(ctx context.Context, a repository.Authenticator, in repository.ProfileUpdate) (*entity.User, error) {
	args := m.Called(ctx, a, in)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) ChangePassword(ctx context.Context, a repository.Authenticator, oldPassword, newPassword string) error {
	return m.Called(ctx, a, oldPassword, newPassword).Error(0)
}

const testSecret = "test-secret-key-for-unit-tests"

func remoteToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"token_type": "access", "exp": exp.Unix(), "user_id": 7,
	}).SignedString([]byte("llave-del-backend"))
	require.NoError(t, err)
	return tok
}

func newFixture() (*MockAccountStore, *memory.SessionRepo, *SessionManager, *AuthUseCase) {
	accounts := new(MockAccountStore)
	sessions := memory.NewSessionRepo(time.Hour)
	mgr := NewSessionManager(sessions, accounts, logger.Nop())
	uc := NewAuthUseCase(accounts, mgr, JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "toolgear-test"}, logger.Nop())
	return accounts, sessions, mgr, uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_AbreSesionYEmiteToken(t *testing.T) {
	accounts, sessions, _, uc := newFixture()
	ctx := context.Background()
	access := remoteToken(t, time.Now().Add(5*time.Minute))
	accounts.On("Login", mock.Anything, "almox@toolgear.local", "segredo").Return(&repository.RemoteTokens{
		Access: access, Refresh: "r1",
		User: &entity.User{ID: "7", Email: "almox@toolgear.local", Username: "almox", FirstName: "Ana"},
	}, nil).Once()

	out, err := uc.Login(ctx, dto.LoginRequest{Email: " almox@toolgear.local ", Password: "segredo"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", out.User.FullName)

	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)

	s, err := sessions.Get(ctx, claims.SessionID)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, access, s.AccessToken)
	assert.Equal(t, "r1", s.RefreshToken)
	assert.False(t, s.AccessExpiresAt.IsZero(), "exp del token remoto")
	accounts.AssertExpectations(t)
}

func TestLogin_SinUsuarioConsultaPerfil(t *testing.T) {
	accounts, sessions, _, uc := newFixture()
	ctx := context.Background()
	accounts.On("Login", mock.Anything, "a@b.c", "x").Return(&repository.RemoteTokens{Access: "a1", Refresh: "r1"}, nil).Once()
	accounts.On("Profile", mock.Anything, mock.Anything).Return(&entity.User{ID: "9", Username: "ana", Email: "a@b.c"}, nil).Once()

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "9", out.User.ID)

	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	s, _ := sessions.Get(ctx, claims.SessionID)
	require.NotNil(t, s)
	assert.Equal(t, "9", s.UserID)
	assert.Equal(t, "ana", s.Username)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	accounts, _, _, uc := newFixture()
	accounts.On("Login", mock.Anything, "a@b.c", "mal").Return(nil, domain.ErrUnauthorized).Once()

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.c", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CamposVacios(t *testing.T) {
	_, _, _, uc := newFixture()
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogout_BorraSesion(t *testing.T) {
	_, sessions, mgr, uc := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: "a1", Refresh: "r1"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, s.ID))
	got, _ := sessions.Get(ctx, s.ID)
	assert.Nil(t, got)

	_, err = mgr.Authenticator(s.ID).AccessToken(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

// ──────────────────────────────────────────────────────────────────────────────
// Renovación de tokens
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthenticator_RenuevaAntesDeVencer(t *testing.T) {
	accounts, _, mgr, _ := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{
		Access: remoteToken(t, time.Now().Add(10*time.Second)), Refresh: "r1",
	})
	require.NoError(t, err)
	accounts.On("RefreshAccess", mock.Anything, "r1").Return("a2", nil).Once()

	tok, err := mgr.Authenticator(s.ID).AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", tok)
	accounts.AssertExpectations(t)
}

func TestAuthenticator_TokenVigenteNoRenueva(t *testing.T) {
	accounts, _, mgr, _ := newFixture()
	ctx := context.Background()
	access := remoteToken(t, time.Now().Add(10*time.Minute))
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: access, Refresh: "r1"})
	require.NoError(t, err)

	tok, err := mgr.Authenticator(s.ID).AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, access, tok)
	accounts.AssertNotCalled(t, "RefreshAccess", mock.Anything, mock.Anything)
}

func TestAuthenticator_RenovacionRechazadaTerminaSesion(t *testing.T) {
	accounts, sessions, mgr, _ := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: "a1", Refresh: "r1"})
	require.NoError(t, err)
	accounts.On("RefreshAccess", mock.Anything, "r1").Return("", domain.ErrSessionExpired).Once()

	a := mgr.Authenticator(s.ID)
	_, _ = a.AccessToken(ctx)
	_, err = a.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	got, _ := sessions.Get(ctx, s.ID)
	assert.Nil(t, got, "la sesión se termina")
}

func TestAuthenticator_ServidorCaidoMantieneSesion(t *testing.T) {
	accounts, sessions, mgr, _ := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: "a1", Refresh: "r1"})
	require.NoError(t, err)
	accounts.On("RefreshAccess", mock.Anything, "r1").Return("", domain.ErrRemoteUnreachable).Once()

	_, err = mgr.Authenticator(s.ID).Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrRemoteUnreachable)

	got, _ := sessions.Get(ctx, s.ID)
	assert.NotNil(t, got)
}

func TestAuthenticator_RenovacionesConcurrentesSeSerializan(t *testing.T) {
	accounts, _, mgr, _ := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: "a1", Refresh: "r1"})
	require.NoError(t, err)
	accounts.On("RefreshAccess", mock.Anything, "r1").Return("a2", nil).Once()

	const n = 8
	auths := make([]repository.Authenticator, n)
	for i := range auths {
		auths[i] = mgr.Authenticator(s.ID)
		tok, err := auths[i].AccessToken(ctx)
		require.NoError(t, err)
		require.Equal(t, "a1", tok)
	}

	var wg sync.WaitGroup
	results := make([]string, n)
	for i := range auths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = auths[i].Refresh(ctx)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "a2", r)
	}
	accounts.AssertNumberOfCalls(t, "RefreshAccess", 1)
}

func locksHeld(m *SessionManager) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func TestSessionManager_LiberaLockAlVencerPorTTL(t *testing.T) {
	accounts, _, mgr, _ := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: "a1", Refresh: "r1"})
	require.NoError(t, err)
	accounts.On("RefreshAccess", mock.Anything, "r1").Return("a2", nil).Once()

	// la renovación guarda UpdatedAt dos horas atrás: el repositorio (TTL 1h) la vence
	mgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, err = mgr.Authenticator(s.ID).Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, locksHeld(mgr))

	mgr.now = time.Now
	_, err = mgr.Authenticator(s.ID).AccessToken(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Zero(t, locksHeld(mgr))
}

func TestSessionManager_LiberaLockAlRechazarRenovacion(t *testing.T) {
	accounts, _, mgr, _ := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: "a1", Refresh: "r1"})
	require.NoError(t, err)
	accounts.On("RefreshAccess", mock.Anything, "r1").Return("", domain.ErrRemoteRejected).Once()

	_, err = mgr.Authenticator(s.ID).Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Zero(t, locksHeld(mgr))
}

func TestSessionManager_LocksNoCrecenConSesionesVencidas(t *testing.T) {
	_, _, mgr, _ := newFixture()
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		_, _ = mgr.Authenticator("vencida-" + strconv.Itoa(i)).Refresh(ctx)
	}
	assert.Zero(t, locksHeld(mgr))
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil y contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_ActualizaLaSesion(t *testing.T) {
	accounts, sessions, mgr, uc := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: "a1", Refresh: "r1"})
	require.NoError(t, err)
	accounts.On("UpdateProfile", mock.Anything, mock.Anything, repository.ProfileUpdate{Email: "nuevo@b.c", FirstName: "Ana"}).
		Return(&entity.User{ID: "7", Username: "ana", Email: "nuevo@b.c", FirstName: "Ana"}, nil).Once()

	out, err := uc.UpdateProfile(ctx, s.ID, dto.UpdateProfileRequest{Email: " nuevo@b.c ", FirstName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@b.c", out.Email)

	got, _ := sessions.Get(ctx, s.ID)
	require.NotNil(t, got)
	assert.Equal(t, "nuevo@b.c", got.Email)
	assert.Equal(t, "ana", got.Username)
	accounts.AssertExpectations(t)
}

func TestUpdateProfile_SinCampos(t *testing.T) {
	accounts, _, _, uc := newFixture()
	_, err := uc.UpdateProfile(context.Background(), "s1", dto.UpdateProfileRequest{Email: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	accounts.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_Validacion(t *testing.T) {
	accounts, _, _, uc := newFixture()
	ctx := context.Background()
	for name, in := range map[string]dto.ChangePasswordRequest{
		"sin actual": {NewPassword: "n"},
		"sin nueva":  {OldPassword: "o"},
		"iguales":    {OldPassword: "x", NewPassword: "x"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, uc.ChangePassword(ctx, "s1", in), domain.ErrInvalidInput)
		})
	}
	accounts.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_RechazoRemoto(t *testing.T) {
	accounts, _, mgr, uc := newFixture()
	ctx := context.Background()
	s, err := mgr.Open(ctx, "a@b.c", &repository.RemoteTokens{Access: "a1", Refresh: "r1"})
	require.NoError(t, err)
	accounts.On("ChangePassword", mock.Anything, mock.Anything, "vieja", "nueva").Return(domain.ErrRemoteRejected).Once()

	err = uc.ChangePassword(ctx, s.ID, dto.ChangePasswordRequest{OldPassword: "vieja", NewPassword: "nueva"})
	assert.ErrorIs(t, err, domain.ErrRemoteRejected)
	_, err = mgr.Get(ctx, s.ID)
	assert.NoError(t, err, "la sesión sigue abierta")
}
