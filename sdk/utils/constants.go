// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

const (
	IniName            = ".xyztai.ini"
	CurrentEnvironment = "current_environment"
	UpdatedEnvKey      = "updated_environment"

	XyztEndpoint = "xyzt_endpoint"
	XyztUser     = "xyzt_user"
	XyztPassword = "xyzt_password"
	XyztDataset  = "xyzt_dataset"
	XyztTimeout  = "xyzt_timeout"

	AwsAccessKeyID     = "aws_access_key_id"
	AwsSecretAccessKey = "aws_secret_access_key"
	AwsSessionToken    = "aws_session_token"
	AwsRegion          = "aws_region"
	AwsEndpointURL     = "aws_endpoint_url"

	LogLevel = "log_level"
)

// Accepted file suffixes and the part content type each one is sent with.
const (
	CsvExt   = ".csv"
	CsvGzExt = ".csv.gz"

	ContentTypeCSV  = "text/csv"
	ContentTypeGzip = "application/gzip"
)
