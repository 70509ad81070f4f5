package api

import (
	"context"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the account creation payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// Login exchanges credentials for a token. It does not install the token;
// the session gate decides that.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	body := loginRequest{Email: strings.TrimSpace(email), Password: password}
	if body.Email == "" || body.Password == "" {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	return c.authenticate(ctx, "POST /auth/login", "/auth/login", body)
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	return c.authenticate(ctx, "POST /auth/register", "/auth/register", in)
}

func (c *Client) authenticate(ctx context.Context, endpoint, path string, body any) (AuthResult, error) {
	var w types.WireAuth
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: endpoint, path: path, body: body}, &w); err != nil {
		return AuthResult{}, err
	}
	res := authFromWire(w)
	if res.Token == "" {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeServer, "authentication response carried no token")
	}
	return res, nil
}

// Logout tells the server to end the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, endpoint: "POST /auth/logout", path: "/auth/logout"}, nil)
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	return c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "POST /auth/reset-password",
		path:     "/auth/reset-password",
		body:     map[string]string{"email": email},
	}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	if strings.TrimSpace(token) == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reset token and new password are required")
	}
	return c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "POST /auth/reset-password/confirm",
		path:     "/auth/reset-password/confirm",
		body:     map[string]string{"token": strings.TrimSpace(token), "password": password},
	}, nil)
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "current and new password are required")
	}
	return c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "POST /auth/change-password",
		path:     "/auth/change-password",
		body:     map[string]string{"currentPassword": current, "newPassword": next},
	}, nil)
}
