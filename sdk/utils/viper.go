// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// Config holds all logical keys. Tags:
// - vkey: Viper key
// - env: canonical env name (UPPER_SNAKE). If empty, derived from vkey
// - persist: "true" to write the key into the INI; secret keys are never written
// - default: optional default to set if key is unset
// - secret: "true" if sensitive, masked by MaskedSettings
// - bind: "false" to NOT bind from env (we still can set defaults)
type Config struct {
	XyztEndpoint       string `vkey:"xyzt_endpoint"         env:"XYZT_ENDPOINT"         persist:"true"  default:"https://api.platform-xyzt.ai/public/api"`
	XyztUser           string `vkey:"xyzt_user"             env:"XYZT_USER"             persist:"true"`
	XyztPassword       string `vkey:"xyzt_password"         env:"XYZT_PASSWORD"         persist:"false" secret:"true"`
	XyztDataset        string `vkey:"xyzt_dataset"          env:"XYZT_DATASET"          persist:"true"`
	XyztTimeout        string `vkey:"xyzt_timeout"          env:"XYZT_TIMEOUT"          persist:"true"`
	AwsAccessKeyID     string `vkey:"aws_access_key_id"     env:"AWS_ACCESS_KEY_ID"     persist:"false" secret:"true"`
	AwsSecretAccessKey string `vkey:"aws_secret_access_key" env:"AWS_SECRET_ACCESS_KEY" persist:"false" secret:"true"`
	AwsSessionToken    string `vkey:"aws_session_token"     env:"AWS_SESSION_TOKEN"     persist:"false" secret:"true"`
	AwsRegion          string `vkey:"aws_region"            env:"AWS_REGION"            persist:"true"`
	AwsEndpointURL     string `vkey:"aws_endpoint_url"      env:"AWS_ENDPOINT_URL"      persist:"true"`
	LogLevel           string `vkey:"log_level"             env:"XYZT_LOG_LEVEL"        persist:"false" default:"info"`
	UpdatedEnvironment string `vkey:"updated_environment"   env:"UPDATED_ENVIRONMENT"   persist:"true"  bind:"false"`
	CurrentEnvironment string `vkey:"current_environment"   env:"CURRENT_ENVIRONMENT"   persist:"false"`
}

// resolveEnvName: --env > "default"
func resolveEnvName(optionalEnv ...string) string {
	if len(optionalEnv) > 0 && optionalEnv[0] != "" && strings.ToLower(optionalEnv[0]) != "null" {
		return optionalEnv[0]
	}
	return "default"
}

// visitKeys calls fn for every tagged field of Config.
func visitKeys(fn func(f reflect.StructField, key string)) {
	rt := reflect.TypeOf(Config{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}
		fn(f, key)
	}
}

func envNameOf(f reflect.StructField, key string) string {
	if env := f.Tag.Get("env"); env != "" {
		return env
	}
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// BindEnvFromStruct binds env for all fields of Config using struct tags.
func BindEnvFromStruct() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	visitKeys(func(f reflect.StructField, key string) {
		if f.Tag.Get("bind") != "false" {
			_ = viper.BindEnv(key, envNameOf(f, key))
		}
		if def := f.Tag.Get("default"); def != "" && !viper.IsSet(key) {
			viper.SetDefault(key, def)
		}
	})
}

func viperValue(_ reflect.StructField, key string) string {
	return viper.GetString(key)
}

func persistInto(sec *ini.Section, value func(f reflect.StructField, key string) string) {
	visitKeys(func(f reflect.StructField, key string) {
		if f.Tag.Get("persist") != "true" || f.Tag.Get("secret") == "true" {
			return
		}
		val := value(f, key)
		if val == "" {
			return
		}
		sec.Key(key).SetValue(val)
	})
}

// WriteIniFromStruct writes a new INI with only fields marked persist:"true".
func WriteIniFromStruct(iniPath, envName string) error {
	cfg := ini.Empty()
	cfg.Section("DEFAULT").Key(CurrentEnvironment).SetValue(envName)
	persistInto(cfg.Section(envName), viperValue)
	return cfg.SaveTo(iniPath)
}

// UpdateIniFromStruct updates or creates the INI section from current Viper values (persist:"true" only).
func UpdateIniFromStruct(iniPath, envName string) error {
	cfg, err := ini.Load(iniPath)
	if err != nil {
		return WriteIniFromStruct(iniPath, envName)
	}
	sec := cfg.Section(envName)
	persistInto(sec, viperValue)

	if !cfg.Section("DEFAULT").HasKey(CurrentEnvironment) {
		cfg.Section("DEFAULT").Key(CurrentEnvironment).SetValue(envName)
	}
	sec.Key(UpdatedEnvKey).SetValue(time.Now().UTC().Format(time.RFC3339))
	return cfg.SaveTo(iniPath)
}

// SaveEnvironment persists the current Viper values into the user's INI.
func SaveEnvironment(envName string) (string, error) {
	iniPath := getIniPath()
	if envName == "" {
		envName = resolveEnvName()
	}
	if err := UpdateIniFromStruct(iniPath, envName); err != nil {
		return iniPath, fmt.Errorf("failed to save ini: %w", err)
	}
	return iniPath, nil
}

// Load [DEFAULT] + [env] into Viper (TOML in-memory). ENV can still override on Get().
func loadIniSectionIntoViper(cfg *ini.File, env string) error {
	def := cfg.Section("DEFAULT")
	selected := def
	if env != "" && cfg.HasSection(env) {
		selected = cfg.Section(env)
		log.Debug().Msgf("Using env: [%s]", env)
	} else if env == "" || strings.EqualFold(env, "DEFAULT") {
		log.Debug().Msg("Using env: [DEFAULT]")
	} else {
		log.Warn().Msgf("Env %q not found, falling back to [DEFAULT]", env)
	}

	merged := make(map[string]string)
	for _, k := range def.Keys() {
		merged[k.Name()] = k.Value()
	}
	if selected != nil && selected != def {
		for _, k := range selected.Keys() {
			merged[k.Name()] = k.Value()
		}
	}

	var buf bytes.Buffer
	for k, v := range merged {
		vSafe := strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `"`, `\"`)
		_, _ = fmt.Fprintf(&buf, "%s = \"%s\"\n", k, vSafe)
	}
	viper.SetConfigType("toml")
	return viper.MergeConfig(&buf)
}

// RegisterIniCfgWithViper:
// 1) bind ENV from struct (live)
// 2) load INI when present; it is only ever written by SaveEnvironment
// 3) load active section into Viper and set current_environment
func RegisterIniCfgWithViper(optionalEnv ...string) error {
	return registerIniCfg(getIniPath(), optionalEnv...)
}

func registerIniCfg(iniPath string, optionalEnv ...string) error {
	BindEnvFromStruct()

	cfg, err := ini.Load(iniPath)
	if err != nil {
		log.Debug().Msg("INI not found; reading configuration from flags and env variables")
		viper.Set(CurrentEnvironment, resolveEnvName(optionalEnv...))
		return nil
	}

	// active env: --env > DEFAULT.current_environment > default
	env := resolveEnvName(optionalEnv...)
	if env == "default" {
		if v := cfg.Section("DEFAULT").Key(CurrentEnvironment).String(); v != "" {
			env = v
		}
	}

	if err := loadIniSectionIntoViper(cfg, env); err != nil {
		return fmt.Errorf("failed to load INI into viper: %w", err)
	}
	viper.Set(CurrentEnvironment, env)
	return nil
}

// MaskedSettings returns the effective settings with secrets blanked, for display.
func MaskedSettings() map[string]string {
	out := map[string]string{}
	visitKeys(func(f reflect.StructField, key string) {
		val := viper.GetString(key)
		if val == "" {
			return
		}
		if f.Tag.Get("secret") == "true" {
			val = "********"
		}
		out[key] = val
	})
	return out
}
