// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// DefaultBaseURL is the public API root of the platform.
const DefaultBaseURL = "https://api.platform-xyzt.ai/public/api"

// Config is everything the SDK needs; viper and INI handling stay in the CLI.
type Config struct {
	Core CoreConfig
	S3   S3Config
}

type CoreConfig struct {
	// BaseURL defaults to DefaultBaseURL when empty
	BaseURL string
	// Timeout of a single HTTP exchange; zero keeps the client default
	Timeout time.Duration
}

type S3Config struct {
	AccessKey   string
	SecretKey   string
	AccessToken string
	Region      string
	EndpointURL string
}

// Credentials of an API user. They are never persisted by the SDK.
type Credentials struct {
	UserName string
	Password string
}

func (c Credentials) Valid() bool {
	return c.UserName != "" && c.Password != ""
}
