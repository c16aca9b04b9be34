package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/admin-console/internal/service"
)

func TestAuthService_Login(t *testing.T) {
	b := newBackend(t)
	b.raw(http.MethodPost, "/api/auth/login", http.StatusOK, `{"token":"jwt-abc"}`)
	svc := service.NewAuthService(b.client())

	token, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)
	assert.JSONEq(t, `{"username":"admin","password":"secret"}`, b.last().Body)
	assert.Empty(t, b.last().Header.Get("Authorization"))
}

func TestAuthService_LoginFailures(t *testing.T) {
	b := newBackend(t)
	b.raw(http.MethodPost, "/api/auth/login", http.StatusOK, `{}`)
	svc := service.NewAuthService(b.client())

	_, err := svc.Login(context.Background(), "admin", "secret")
	assert.ErrorIs(t, err, service.ErrEmptyToken)

	b.raw(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, `{"message":"bad credentials"}`)
	_, err = svc.Login(context.Background(), "admin", "wrong")
	assert.Error(t, err)
}
