// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"

	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
)

type AuthService struct {
	http config.CoreHTTP
}

func NewAuthService(_ context.Context, conf config.Config) (*AuthService, error) {
	return NewAuthServiceWithCore(config.NewHTTPCore(nil, conf.Core)), nil
}

// NewAuthServiceWithCore shares an existing REST core, as the other services do.
func NewAuthServiceWithCore(core config.CoreHTTP) *AuthService {
	return &AuthService{http: core}
}
