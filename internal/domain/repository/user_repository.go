package repository

import (
	"context"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// Authenticator entrega el bearer token de la sesión y sabe renovarlo.
// Refresh se llama como máximo una vez por petición, tras un 401.
type Authenticator interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// RemoteTokens par de tokens emitido por /auth/login/.
type RemoteTokens struct {
	Access  string
	Refresh string
	User    *entity.User // nil si el servidor no lo incluye
}

// RegisterInput datos para /auth/register/.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate datos para /auth/profile/update/. Un campo vacío conserva el valor actual.
type ProfileUpdate struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// AccountStore puerto de autenticación contra la API remota.
type AccountStore interface {
	Login(ctx context.Context, email, password string) (*RemoteTokens, error)
	RefreshAccess(ctx context.Context, refreshToken string) (string, error)
	Register(ctx context.Context, in RegisterInput) (*entity.User, error)
	Profile(ctx context.Context, auth Authenticator) (*entity.User, error)
	UpdateProfile(ctx context.Context, auth Authenticator, in ProfileUpdate) (*entity.User, error)
	ChangePassword(ctx context.Context, auth Authenticator, oldPassword, newPassword string) error
}
