// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
	"github.com/xyztai/xyzt-cli-sdk/sdk/logger"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

const name = "xyztcli"

var envName string

// UsageError is a malformed or incomplete command line. It exits with code 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, a ...any) error {
	return &UsageError{Err: fmt.Errorf(format, a...)}
}

var RootCmd = &cobra.Command{
	Use:           name,
	Short:         "Upload data files to the xyzt.ai platform",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(viper.GetString(utils.LogLevel), cmd.ErrOrStderr())
		if err := utils.RegisterIniCfgWithViper(envName); err != nil {
			return err
		}
		// XYZT_LOG_LEVEL is only bound once the configuration is registered
		logger.Init(viper.GetString(utils.LogLevel), cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&envName, "env", "", "Environment (INI section) to use")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("endpoint", "", "Platform API root (default "+config.DefaultBaseURL+")")
	pf.StringP("user", "u", "", "API user name")
	pf.StringP("password", "p", "", "API user password")

	_ = viper.BindPFlag(utils.LogLevel, pf.Lookup("log-level"))
	_ = viper.BindPFlag(utils.XyztEndpoint, pf.Lookup("endpoint"))
	_ = viper.BindPFlag(utils.XyztUser, pf.Lookup("user"))
	_ = viper.BindPFlag(utils.XyztPassword, pf.Lookup("password"))

	RootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	RootCmd.AddCommand(UploadCmd, LoginCmd, DatasetsCmd, BatchesCmd, RegisterCmd, ConfigCmd)
}

// Execute runs the command tree. Usage errors print the usage of the failing command.
func Execute(ctx context.Context) error {
	cmd, err := RootCmd.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}
	cmd.PrintErrln("Error:", err.Error())
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		cmd.PrintErr(cmd.UsageString())
	}
	return err
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("expected %d argument(s), got %d", n, len(args))
		}
		return nil
	}
}

// datasetFlag prefers -d over XYZT_DATASET and the INI. Several commands own a
// -d flag, so it is not bound to viper globally.
func datasetFlag(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("dataset"); f != nil && f.Changed {
		return f.Value.String()
	}
	return viper.GetString(utils.XyztDataset)
}

// requireCredentials checks user and password after flags, env and INI were merged.
func requireCredentials() error {
	creds := utils.CredentialsFromViper()
	var missing []string
	if creds.UserName == "" {
		missing = append(missing, "-u <userName>")
	}
	if creds.Password == "" {
		missing = append(missing, "-p <password>")
	}
	if len(missing) > 0 {
		return usageErrorf("missing required %v", missing)
	}
	return nil
}
