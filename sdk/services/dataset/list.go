// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
)

// List performs GET {base}/datasets
func (s *DatasetService) List(ctx context.Context, creds config.Credentials) ([]Dataset, error) {
	token, err := s.tokens.GetToken(ctx, creds)
	if err != nil {
		return nil, err
	}

	url := s.http.BuildURL("/datasets", nil)
	body, status, err := s.http.Do(ctx, http.MethodGet, url, token, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieval of data sets failed (status %d): %w", status, err)
	}

	var out []Dataset
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("json parsing failed: %w", err)
	}
	return out, nil
}
