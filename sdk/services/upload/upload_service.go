// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
	"github.com/xyztai/xyzt-cli-sdk/sdk/services/auth"
)

// ObjectStore is the part of config.S3Client the uploader reads staged files through.
type ObjectStore interface {
	WalkPrefix(ctx context.Context, bucket, prefix string, pageSize int32, fn func(obj config.S3File) error) error
	DownloadToFile(ctx context.Context, bucket, key string, f *os.File, hook *config.ProgressHook) (int64, error)
}

type UploadService struct {
	http        config.CoreHTTP
	tokens      auth.TokenSource
	fs          afero.Fs
	store       ObjectStore
	s3Conf      config.S3Config
	progressOut io.Writer
}

type Option func(*UploadService)

// WithFs replaces the OS filesystem used for local inputs.
func WithFs(fs afero.Fs) Option {
	return func(s *UploadService) { s.fs = fs }
}

// WithObjectStore replaces the S3 client built from config on first use.
func WithObjectStore(store ObjectStore) Option {
	return func(s *UploadService) { s.store = store }
}

// WithTokenSource replaces the platform token endpoint; it is still asked once per file.
func WithTokenSource(tokens auth.TokenSource) Option {
	return func(s *UploadService) { s.tokens = tokens }
}

// WithProgress renders a single progress line per file on out.
func WithProgress(out io.Writer) Option {
	return func(s *UploadService) { s.progressOut = out }
}

func NewUploadService(_ context.Context, conf config.Config, opts ...Option) (*UploadService, error) {
	core := config.NewHTTPCore(nil, conf.Core)
	s := &UploadService{
		http:   core,
		tokens: auth.NewAuthServiceWithCore(core),
		fs:     afero.NewOsFs(),
		s3Conf: conf.S3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *UploadService) objectStore(ctx context.Context) (ObjectStore, error) {
	if s.store != nil {
		return s.store, nil
	}
	c, err := config.NewS3Client(ctx, s.s3Conf)
	if err != nil {
		return nil, err
	}
	s.store = c
	return c, nil
}
