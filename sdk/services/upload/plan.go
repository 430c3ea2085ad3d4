// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

const s3PageSize = int32(1000)

// acceptRoot is the filter for files directly under the root in batches mode.
func acceptRoot(name string, rootGzip bool) bool {
	if strings.HasSuffix(name, utils.CsvGzExt) {
		return rootGzip
	}
	return strings.HasSuffix(name, utils.CsvExt)
}

// acceptNested is the filter below a batch directory and everywhere in flat mode.
func acceptNested(name string) bool {
	return strings.HasSuffix(name, utils.CsvExt) || strings.HasSuffix(name, utils.CsvGzExt)
}

func ioFailure(p string, err error) FileOutcome {
	return FileOutcome{
		Path:    p,
		Name:    filepath.Base(p),
		Status:  StatusIOFailed,
		Message: err.Error(),
	}
}

// PlanLocal maps every accepted file under root to one task. Entries that cannot be
// read become io_failed outcomes; the walk goes on with their siblings.
func PlanLocal(fsys afero.Fs, root string, mode Mode, rootGzip bool) ([]UploadTask, []FileOutcome, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot access input: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("input %s is not a directory", root)
	}

	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read input directory: %w", err)
	}

	var (
		tasks    []UploadTask
		failures []FileOutcome
	)
	for _, entry := range entries {
		p := filepath.Join(root, entry.Name())
		switch {
		case entry.IsDir():
			batch := entry.Name()
			if mode == ModeFlat {
				batch = ""
			}
			walkBatch(fsys, p, batch, &tasks, &failures)
		case entry.Mode().IsRegular():
			accepted := acceptRoot(entry.Name(), rootGzip)
			if mode == ModeFlat {
				accepted = acceptNested(entry.Name())
			}
			if !accepted {
				continue
			}
			tasks = append(tasks, UploadTask{Path: p, Name: entry.Name(), Size: entry.Size()})
		}
	}
	return tasks, failures, nil
}

// walkBatch carries batch down the whole subtree of dir.
func walkBatch(fsys afero.Fs, dir, batch string, tasks *[]UploadTask, failures *[]FileOutcome) {
	_ = afero.Walk(fsys, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("Skipping unreadable entry.")
			*failures = append(*failures, ioFailure(p, err))
			return nil
		}
		if !info.Mode().IsRegular() || !acceptNested(info.Name()) {
			return nil
		}
		*tasks = append(*tasks, UploadTask{Path: p, Name: info.Name(), Batch: batch, Size: info.Size()})
		return nil
	})
}

// PlanS3 applies the local rules to the keys below prefix: the first key segment
// after the prefix plays the top-level directory.
func PlanS3(ctx context.Context, store ObjectStore, bucket, prefix string, mode Mode, rootGzip bool) ([]UploadTask, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var tasks []UploadTask
	err := store.WalkPrefix(ctx, bucket, prefix, s3PageSize, func(obj config.S3File) error {
		rel := strings.TrimPrefix(obj.Key, prefix)
		name := path.Base(rel)

		var batch string
		accepted := acceptRoot(name, rootGzip)
		if top, rest, nested := strings.Cut(rel, "/"); nested {
			if top == "" || rest == "" {
				return nil
			}
			batch = top
			accepted = acceptNested(name)
		}
		if mode == ModeFlat {
			batch = ""
			accepted = acceptNested(name)
		}
		if !accepted {
			return nil
		}

		tasks = append(tasks, UploadTask{
			Path:   fmt.Sprintf("s3://%s/%s", bucket, obj.Key),
			Name:   name,
			Batch:  batch,
			Size:   obj.Size,
			bucket: bucket,
			key:    obj.Key,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot list s3://%s/%s: %w", bucket, prefix, err)
	}
	return tasks, nil
}
