// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
	"github.com/xyztai/xyzt-cli-sdk/sdk/services/auth"
)

func newAuth(t *testing.T, h http.HandlerFunc) *auth.AuthService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	svc, err := auth.NewAuthService(context.Background(), config.Config{
		Core: config.CoreConfig{BaseURL: srv.URL + "/public/api/"},
	})
	require.NoError(t, err)
	return svc
}

func TestGetToken(t *testing.T) {
	svc := newAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/public/api/tokens", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"userName": "alice", "password": "secret"}, body)

		_, _ = w.Write([]byte(`{"jwtToken":"abc.def.ghi","expiresIn":3600}`))
	})

	token, err := svc.GetToken(context.Background(), config.Credentials{UserName: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestGetTokenFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"rejected": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		},
		"not json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		},
		"no token": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"jwtToken":""}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newAuth(t, h)
			_, err := svc.GetToken(context.Background(), config.Credentials{UserName: "a", Password: "b"})
			assert.ErrorIs(t, err, config.ErrAuthentication)
		})
	}
}

func TestGetTokenRejectedCarriesStatus(t *testing.T) {
	svc := newAuth(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Account locked"}`))
	})

	_, err := svc.GetToken(context.Background(), config.Credentials{UserName: "a", Password: "b"})
	var se *config.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "Account locked", se.Message)
}

func TestGetTokenWithoutCredentials(t *testing.T) {
	called := false
	svc := newAuth(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := svc.GetToken(context.Background(), config.Credentials{UserName: "alice"})
	assert.ErrorIs(t, err, config.ErrAuthentication)
	assert.False(t, called)
}

func TestGetTokenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc, err := auth.NewAuthService(context.Background(), config.Config{Core: config.CoreConfig{BaseURL: url}})
	require.NoError(t, err)
	_, err = svc.GetToken(context.Background(), config.Credentials{UserName: "a", Password: "b"})
	assert.ErrorIs(t, err, config.ErrAuthentication)
}
