package service

import (
	"context"
	"errors"

	"github.com/storefront/admin-console/internal/apiclient"
)

// ErrEmptyToken is returned when the backend accepts a login but sends no token.
var ErrEmptyToken = errors.New("login response carried no token")

// LoginRequest is the backend login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AuthService exchanges console credentials for a backend token.
type AuthService struct {
	client *apiclient.Client
}

// NewAuthService builds the service.
func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{client: client}
}

// Login calls POST /auth/login and returns the issued token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	var res loginResponse
	if err := s.client.Post(ctx, "/auth/login", LoginRequest{Username: username, Password: password}, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", ErrEmptyToken
	}
	return res.Token, nil
}
