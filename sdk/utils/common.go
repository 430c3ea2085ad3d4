// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
)

func getIniPath() string {
	iniPath, err := os.UserHomeDir()
	if err != nil {
		iniPath = "."
	}
	return iniPath + string(os.PathSeparator) + IniName
}

func TranslateFormat(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	default:
		return "short"
	}
}

// BatchName applies the platform's batch naming: spaces become underscores, nothing else changes.
func BatchName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// ContentTypeFor maps a file name to the part content type; ok is false for unsupported names.
func ContentTypeFor(name string) (contentType string, ok bool) {
	switch {
	case strings.HasSuffix(name, CsvGzExt):
		return ContentTypeGzip, true
	case strings.HasSuffix(name, CsvExt):
		return ContentTypeCSV, true
	default:
		return "", false
	}
}

// SDKConfigFromViper reads the active environment into an SDK config.
func SDKConfigFromViper() config.Config {
	var timeout time.Duration
	if raw := viper.GetString(XyztTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Warn().Err(err).Msgf("Ignoring invalid %s %q.", XyztTimeout, raw)
		} else {
			timeout = d
		}
	}
	return config.Config{
		Core: config.CoreConfig{
			BaseURL: viper.GetString(XyztEndpoint),
			Timeout: timeout,
		},
		S3: config.S3Config{
			AccessKey:   viper.GetString(AwsAccessKeyID),
			SecretKey:   viper.GetString(AwsSecretAccessKey),
			AccessToken: viper.GetString(AwsSessionToken),
			Region:      viper.GetString(AwsRegion),
			EndpointURL: viper.GetString(AwsEndpointURL),
		},
	}
}

func CredentialsFromViper() config.Credentials {
	return config.Credentials{
		UserName: viper.GetString(XyztUser),
		Password: viper.GetString(XyztPassword),
	}
}
