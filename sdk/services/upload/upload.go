// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

// Run uploads every planned file one after the other:
// - plan the tasks from the input (local directory or S3 prefix)
// - per file: open it, fetch a fresh token, POST it as multipart form data
// - upload and IO failures are recorded and the run goes on
// - an authentication failure stops the run; the partial report is returned with the error
func (s *UploadService) Run(ctx context.Context, req UploadRequest) (*Report, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	parsed, err := utils.ParsePath(req.Input)
	if err != nil {
		return nil, err
	}

	var (
		tasks    []UploadTask
		failures []FileOutcome
	)
	if parsed.IsLocal() {
		tasks, failures, err = PlanLocal(s.fs, parsed.Path, req.Mode, req.RootGzip)
	} else {
		var store ObjectStore
		if store, err = s.objectStore(ctx); err == nil {
			tasks, err = PlanS3(ctx, store, parsed.Host, parsed.Path, req.Mode, req.RootGzip)
		}
	}
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     utils.UUIDv4NoDash(),
		DatasetID: req.DatasetID,
		DataType:  req.DataType,
		Mode:      req.Mode,
		Files:     []FileOutcome{},
	}
	report.add(failures...)

	logger := log.With().Str("run", report.RunID).Str("dataset", req.DatasetID).Logger()
	logger.Info().Msgf("Found %d file(s) to upload from %s", len(tasks), req.Input)

	var progress *utils.Progress
	if s.progressOut != nil {
		progress = utils.NewProgress(s.progressOut, len(tasks))
	}

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := s.uploadOne(ctx, logger, req, task, progress)
		if err != nil {
			return report, err
		}
		report.add(outcome)
	}

	logger.Info().Int("uploaded", report.Uploaded).Int("failed", report.Failed).Msg("Upload finished")
	return report, nil
}

func validate(req *UploadRequest) error {
	if req.Input == "" {
		return errors.New("missing required input directory")
	}
	if req.DatasetID == "" {
		return errors.New("missing required data set id")
	}
	if !req.Credentials.Valid() {
		return errors.New("user name and password are required")
	}
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return err
	}
	dataType, err := ParseDataType(string(req.DataType))
	if err != nil {
		return err
	}
	req.Mode, req.DataType = mode, dataType
	return nil
}

// uploadOne returns a non-nil error only when the whole run must stop.
func (s *UploadService) uploadOne(
	ctx context.Context,
	logger zerolog.Logger,
	req UploadRequest,
	task UploadTask,
	progress *utils.Progress,
) (FileOutcome, error) {
	outcome := FileOutcome{Path: task.Path, Name: task.Name, Batch: task.Batch}

	if task.Batch == "" {
		logger.Info().Msgf("Uploading file %s without batch", task.Name)
	} else {
		logger.Info().Msgf("Uploading file %s to batch %s", task.Name, task.Batch)
	}

	contentType, _ := utils.ContentTypeFor(task.Name)

	src, size, err := s.open(ctx, task)
	if err != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		logger.Error().Err(err).Str("file", task.Path).Msg("Cannot read file")
		outcome.Status = StatusIOFailed
		outcome.Message = err.Error()
		return outcome, nil
	}
	defer src.Close()

	token, err := s.tokens.GetToken(ctx, req.Credentials)
	if err != nil {
		logger.Error().Err(err).Msg("Could not obtain token, aborting")
		return outcome, err
	}

	params := map[string]string{}
	if task.Batch != "" {
		params["batch"] = utils.BatchName(task.Batch)
	}
	url := s.http.BuildURL(fmt.Sprintf("/datasets/%s/%s/upload", req.DatasetID, req.DataType), params)

	part := config.FilePart{
		FieldName:   "file",
		FileName:    task.Name,
		ContentType: contentType,
		Content:     src,
		Size:        size,
		Boundary:    utils.MultipartBoundary(),
	}
	if progress != nil {
		part.Hook = progress.FileHook(task.Name)
	}

	start := time.Now()
	_, status, err := s.http.DoMultipart(ctx, url, token, part)
	outcome.Took = time.Since(start).Truncate(time.Millisecond).String()
	outcome.StatusCode = status

	var se *config.StatusError
	switch {
	case err == nil:
		outcome.Status = StatusUploaded
		outcome.Bytes = size
		logger.Debug().Str("file", task.Name).Int("status", status).Msg("Upload succeeded")
	case errors.Is(err, config.ErrSourceRead):
		outcome.Status = StatusIOFailed
		outcome.StatusCode = 0
		outcome.Message = err.Error()
		logger.Error().Err(err).Str("file", task.Path).Msg("Cannot read file")
	case errors.As(err, &se):
		outcome.Status = StatusUploadFailed
		outcome.Message = se.Message
		if outcome.Message == "" {
			outcome.Message = se.Body
		}
		logger.Error().Str("file", task.Name).Int("status", se.StatusCode).
			Msgf("Upload file %s failed. Status code: %d. Message: %s", task.Name, se.StatusCode, outcome.Message)
	case ctx.Err() != nil:
		return outcome, ctx.Err()
	default:
		outcome.Status = StatusUploadFailed
		outcome.Message = err.Error()
		logger.Error().Err(err).Str("file", task.Name).Msgf("Upload file %s failed", task.Name)
	}
	return outcome, nil
}

// open returns the content of task and its size.
func (s *UploadService) open(ctx context.Context, task UploadTask) (io.ReadCloser, int64, error) {
	if task.key == "" {
		f, err := s.fs.Open(task.Path)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to open local file: %w", err)
		}
		st, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, 0, fmt.Errorf("stat error: %w", err)
		}
		return f, st.Size(), nil
	}

	store, err := s.objectStore(ctx)
	if err != nil {
		return nil, 0, err
	}
	tmp, err := os.CreateTemp("", "xyzt-staged-*")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create staging file: %w", err)
	}
	staged := &stagedFile{File: tmp}
	n, err := store.DownloadToFile(ctx, task.bucket, task.key, tmp, nil)
	if err != nil {
		_ = staged.Close()
		return nil, 0, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		_ = staged.Close()
		return nil, 0, fmt.Errorf("seek error: %w", err)
	}
	return staged, n, nil
}

// stagedFile removes the temporary copy of an S3 object once it has been sent.
type stagedFile struct {
	*os.File
}

func (f *stagedFile) Close() error {
	err := f.File.Close()
	_ = os.Remove(f.Name())
	return err
}
