// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/spf13/cobra"
	"github.com/xyztai/xyzt-cli-sdk/sdk/services/upload"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

var (
	uploadInput    string
	uploadMode     string
	uploadDataType string
	uploadRootGzip bool
	uploadProgress bool
	uploadOutput   string
)

var UploadCmd = &cobra.Command{
	Use:   "upload -i <inputDir> -d <dataSetId> -u <userName> -p <password>",
	Short: "Upload all .csv and .csv.gz files of a directory into a data set",
	Long: `Uploads all files from the specified directory into the specified data set,
using the subdirectories as batches.

Given
  root
    |_ subdir1
       |_ file1_1.csv
       |_ file1_2.csv.gz
    |_ subdir2
       |_ file2_1.csv
    |_ file_without_batch.csv

two batches "subdir1" and "subdir2" are created and file_without_batch.csv is
uploaded without batch. Spaces in batch names are replaced by underscores.

The input may also be an S3 prefix (s3://bucket/prefix/); its first key
segment then plays the subdirectory.`,
	Args: noArgs,
	RunE: runUpload,
}

func init() {
	f := UploadCmd.Flags()
	f.StringVarP(&uploadInput, "input", "i", "", "Input directory or s3://bucket/prefix/ (required)")
	f.StringP("dataset", "d", "", "Data set id (required)")
	f.StringVar(&uploadMode, "mode", string(upload.ModeBatches), "batches: subdirectories become batches; flat: no batches at all")
	f.StringVar(&uploadDataType, "type", string(upload.DataTypeData), "Upload target: data or metadata")
	f.BoolVar(&uploadRootGzip, "root-gzip", false, "Also upload .csv.gz files found directly in the input directory")
	f.BoolVarP(&uploadProgress, "verbose", "v", false, "Show per-file upload progress")
	f.StringVarP(&uploadOutput, "output", "o", "short", "Report format: short, json or yaml")
}

func runUpload(cmd *cobra.Command, _ []string) error {
	datasetID := datasetFlag(cmd)
	if uploadInput == "" {
		return usageErrorf("missing required -i <inputDir>")
	}
	if datasetID == "" {
		return usageErrorf("missing required -d <dataSetId>")
	}
	if err := requireCredentials(); err != nil {
		return err
	}
	mode, err := upload.ParseMode(uploadMode)
	if err != nil {
		return &UsageError{Err: err}
	}
	dataType, err := upload.ParseDataType(uploadDataType)
	if err != nil {
		return &UsageError{Err: err}
	}

	var opts []upload.Option
	if uploadProgress {
		opts = append(opts, upload.WithProgress(cmd.ErrOrStderr()))
	}
	svc, err := upload.NewUploadService(cmd.Context(), utils.SDKConfigFromViper(), opts...)
	if err != nil {
		return err
	}

	report, err := svc.Run(cmd.Context(), upload.UploadRequest{
		Input:       uploadInput,
		DatasetID:   datasetID,
		Credentials: utils.CredentialsFromViper(),
		Mode:        mode,
		DataType:    dataType,
		RootGzip:    uploadRootGzip,
	})
	if report != nil {
		if perr := printReport(cmd.OutOrStdout(), uploadOutput, report); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}
