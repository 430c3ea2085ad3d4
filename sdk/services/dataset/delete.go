// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

// DeleteBatch performs DELETE {base}/datasets/{id}/batches/{batch}.
// The platform only schedules the deletion.
func (s *DatasetService) DeleteBatch(ctx context.Context, creds config.Credentials, req DeleteBatchRequest) error {
	if req.DatasetID == "" {
		return errors.New("data set id is required")
	}
	if req.Batch == "" {
		return errors.New("batch cannot be empty")
	}

	token, err := s.tokens.GetToken(ctx, creds)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/datasets/%s/batches/%s", req.DatasetID, url.PathEscape(utils.BatchName(req.Batch)))
	_, status, err := s.http.Do(ctx, http.MethodDelete, s.http.BuildURL(path, nil), token, nil)
	if err != nil {
		return fmt.Errorf("deletion of batch %q failed (status %d): %w", req.Batch, status, err)
	}
	return nil
}
