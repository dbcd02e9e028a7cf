package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/pkg/jwt"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// JWTConfig configuración para generación de tokens del dashboard.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación. Las credenciales se validan en la API remota;
// el dashboard sólo abre una sesión y emite su propio token.
type AuthUseCase struct {
	accounts repository.AccountStore
	sessions *SessionManager
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(accounts repository.AccountStore, sessions *SessionManager, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{accounts: accounts, sessions: sessions, jwtCfg: jwtCfg, log: log.Named("auth")}
}

// Login autentica contra la API remota, abre la sesión y genera el JWT del dashboard.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	tokens, err := uc.accounts.Login(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	session, err := uc.sessions.Open(ctx, email, tokens)
	if err != nil {
		return nil, err
	}

	user := tokens.User
	if user == nil {
		user, err = uc.accounts.Profile(ctx, uc.sessions.Authenticator(session.ID))
		if err != nil {
			uc.log.Warn().Err(err).Str("session_id", session.ID).Msg("no se pudo leer el perfil tras el login")
			user = &entity.User{Email: email}
		} else if err := uc.sessions.AttachUser(ctx, session.ID, user); err != nil {
			return nil, err
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, session.ID, user.ID, email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("session_id", session.ID).Str("email", email).Msg("sesión abierta")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      dto.FromUser(user),
	}, nil
}

// Register reenvía el registro a la API remota. Email, usuario y contraseña son obligatorios.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.accounts.Register(ctx, repository.RegisterInput{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

// Profile perfil del usuario de la sesión.
func (uc *AuthUseCase) Profile(ctx context.Context, sessionID string) (*dto.UserResponse, error) {
	user, err := uc.accounts.Profile(ctx, uc.sessions.Authenticator(sessionID))
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

// UpdateProfile actualiza el perfil remoto y refleja el resultado en la sesión.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, sessionID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	upd := repository.ProfileUpdate{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if upd == (repository.ProfileUpdate{}) {
		return nil, fmt.Errorf("%w: no hay campos para actualizar", domain.ErrInvalidInput)
	}
	user, err := uc.accounts.UpdateProfile(ctx, uc.sessions.Authenticator(sessionID), upd)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.AttachUser(ctx, sessionID, user); err != nil {
		uc.log.Warn().Err(err).Str("session_id", sessionID).Msg("no se pudo actualizar el usuario de la sesión")
	}
	out := dto.FromUser(user)
	return &out, nil
}

// ChangePassword cambia la contraseña en la API remota. La sesión sigue abierta:
// los tokens emitidos antes del cambio siguen siendo válidos en el servidor.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, sessionID string, in dto.ChangePasswordRequest) error {
	if in.OldPassword == "" || in.NewPassword == "" {
		return fmt.Errorf("%w: la contraseña actual y la nueva son obligatorias", domain.ErrInvalidInput)
	}
	if in.OldPassword == in.NewPassword {
		return fmt.Errorf("%w: la nueva contraseña debe ser distinta de la actual", domain.ErrInvalidInput)
	}
	if err := uc.accounts.ChangePassword(ctx, uc.sessions.Authenticator(sessionID), in.OldPassword, in.NewPassword); err != nil {
		return err
	}
	uc.log.Info().Str("session_id", sessionID).Msg("contraseña cambiada")
	return nil
}

// Logout termina la sesión; los tokens remotos se descartan.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Terminate(ctx, sessionID)
}
