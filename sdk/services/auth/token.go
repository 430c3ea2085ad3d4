// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
)

// GetToken performs POST {base}/tokens and returns the bearer token.
// Every failure wraps config.ErrAuthentication.
func (s *AuthService) GetToken(ctx context.Context, creds config.Credentials) (string, error) {
	if !creds.Valid() {
		return "", fmt.Errorf("%w: user name and password are required", config.ErrAuthentication)
	}

	payload, err := json.Marshal(tokenRequest{UserName: creds.UserName, Password: creds.Password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	url := s.http.BuildURL("/tokens", nil)
	body, status, err := s.http.Do(ctx, http.MethodPost, url, "", payload)
	if err != nil {
		var se *config.StatusError
		if errors.As(err, &se) {
			return "", fmt.Errorf("%w: could not obtain token: %w", config.ErrAuthentication, err)
		}
		// transport failures are not credential problems, but no token means no upload either
		return "", fmt.Errorf("%w: token request failed: %w", config.ErrAuthentication, err)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: invalid token response (status %d): %w", config.ErrAuthentication, status, err)
	}
	if resp.JWTToken == "" {
		return "", fmt.Errorf("%w: response (status %d) carries no jwtToken", config.ErrAuthentication, status)
	}
	return resp.JWTToken, nil
}
