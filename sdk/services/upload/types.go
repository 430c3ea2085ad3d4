// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"fmt"

	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
)

// Mode selects how files are mapped to batches.
type Mode string

const (
	// ModeBatches: root files go without batch, files below a top-level directory D go to batch D.
	ModeBatches Mode = "batches"
	// ModeFlat: every file at any depth goes without batch.
	ModeFlat Mode = "flat"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeBatches:
		return ModeBatches, nil
	case ModeFlat:
		return ModeFlat, nil
	}
	return "", fmt.Errorf("unknown upload mode %q (expected %q or %q)", s, ModeBatches, ModeFlat)
}

// DataType is the upload target within a dataset.
type DataType string

const (
	DataTypeData     DataType = "data"
	DataTypeMetadata DataType = "metadata"
)

func ParseDataType(s string) (DataType, error) {
	switch DataType(s) {
	case "", DataTypeData:
		return DataTypeData, nil
	case DataTypeMetadata:
		return DataTypeMetadata, nil
	}
	return "", fmt.Errorf("unknown data type %q (expected %q or %q)", s, DataTypeData, DataTypeMetadata)
}

type UploadRequest struct {
	Input       string // local directory or s3://bucket/prefix/
	DatasetID   string
	Credentials config.Credentials
	Mode        Mode
	DataType    DataType
	// RootGzip also accepts .csv.gz files directly under the root in batches mode
	RootGzip bool
}

// UploadTask is one file to push. Batch is empty for "no batch".
type UploadTask struct {
	Path  string
	Name  string
	Batch string
	Size  int64

	bucket string
	key    string
}

type Status string

const (
	StatusUploaded     Status = "uploaded"
	StatusUploadFailed Status = "upload_failed"
	StatusIOFailed     Status = "io_failed"
)

type FileOutcome struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Batch      string `json:"batch,omitempty"`
	Status     Status `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message,omitempty"`
	Bytes      int64  `json:"bytes,omitempty"`
	Took       string `json:"took,omitempty"`
}

type Report struct {
	RunID     string        `json:"runId"`
	DatasetID string        `json:"datasetId"`
	DataType  DataType      `json:"dataType"`
	Mode      Mode          `json:"mode"`
	Files     []FileOutcome `json:"files"`
	Uploaded  int           `json:"uploaded"`
	Failed    int           `json:"failed"`
}

func (r *Report) add(outcomes ...FileOutcome) {
	for _, o := range outcomes {
		r.Files = append(r.Files, o)
		if o.Status == StatusUploaded {
			r.Uploaded++
		} else {
			r.Failed++
		}
	}
}
