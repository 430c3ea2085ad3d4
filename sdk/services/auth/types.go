// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"

	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
)

// wire format of POST /tokens; field names are fixed by the platform
type tokenRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type tokenResponse struct {
	JWTToken string `json:"jwtToken"`
}

// TokenSource hands out a bearer token for creds. *AuthService is the platform implementation.
type TokenSource interface {
	GetToken(ctx context.Context, creds config.Credentials) (string, error)
}
