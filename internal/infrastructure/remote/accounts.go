package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

// Login POST /auth/login/. Credenciales inválidas -> domain.ErrUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (*repository.RemoteTokens, error) {
	var out loginResponse
	err := c.doPublic(ctx, call{op: "Login", method: http.MethodPost, path: "/auth/login/", body: loginRequest{Email: email, Password: password}, out: &out})
	if err != nil {
		return nil, err
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, fmt.Errorf("remote Login: respuesta sin tokens")
	}
	tokens := &repository.RemoteTokens{Access: out.Access, Refresh: out.Refresh}
	if out.User != nil {
		tokens.User = out.User.toEntity()
	}
	return tokens, nil
}

// RefreshAccess POST /auth/login/refresh/. Un refresh token rechazado -> domain.ErrSessionExpired.
func (c *Client) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	var out refreshResponse
	err := c.doPublic(ctx, call{op: "RefreshAccess", method: http.MethodPost, path: "/auth/login/refresh/", body: refreshRequest{Refresh: refreshToken}, out: &out})
	if err != nil {
		if errors.Is(err, domain.ErrRemoteUnreachable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
	}
	if out.Access == "" {
		return "", fmt.Errorf("%w: respuesta de refresh sin access", domain.ErrSessionExpired)
	}
	return out.Access, nil
}

// Register POST /auth/register/.
func (c *Client) Register(ctx context.Context, in repository.RegisterInput) (*entity.User, error) {
	var out userWire
	err := c.doPublic(ctx, call{op: "Register", method: http.MethodPost, path: "/auth/register/", body: registerRequest{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}, out: &out})
	if err != nil {
		return nil, err
	}
	return out.toEntity(), nil
}

// Profile GET /auth/profile/.
func (c *Client) Profile(ctx context.Context, auth repository.Authenticator) (*entity.User, error) {
	var out userWire
	if err := c.doAuth(ctx, auth, call{op: "Profile", method: http.MethodGet, path: "/auth/profile/", out: &out}); err != nil {
		return nil, err
	}
	return out.toEntity(), nil
}

// UpdateProfile PUT /auth/profile/update/. Los campos vacíos no se envían y el servidor conserva su valor.
func (c *Client) UpdateProfile(ctx context.Context, auth repository.Authenticator, in repository.ProfileUpdate) (*entity.User, error) {
	var out userWire
	err := c.doAuth(ctx, auth, call{op: "UpdateProfile", method: http.MethodPut, path: "/auth/profile/update/", body: profileUpdateRequest{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}, out: &out})
	if err != nil {
		return nil, err
	}
	return out.toEntity(), nil
}

// ChangePassword POST /auth/change-password/. Contraseña actual incorrecta -> 400 (ErrRemoteRejected).
func (c *Client) ChangePassword(ctx context.Context, auth repository.Authenticator, oldPassword, newPassword string) error {
	return c.doAuth(ctx, auth, call{op: "ChangePassword", method: http.MethodPost, path: "/auth/change-password/",
		body: changePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}})
}
