// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"context"

	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
	"github.com/xyztai/xyzt-cli-sdk/sdk/services/auth"
)

type DatasetService struct {
	http   config.CoreHTTP
	tokens auth.TokenSource
}

func NewDatasetService(_ context.Context, conf config.Config) (*DatasetService, error) {
	core := config.NewHTTPCore(nil, conf.Core)
	return &DatasetService{
		http:   core,
		tokens: auth.NewAuthServiceWithCore(core),
	}, nil
}
