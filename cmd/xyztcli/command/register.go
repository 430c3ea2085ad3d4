// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

var registerFlags = map[string]string{
	"dataset":          utils.XyztDataset,
	"timeout":          utils.XyztTimeout,
	"aws-region":       utils.AwsRegion,
	"aws-endpoint-url": utils.AwsEndpointURL,
}

var RegisterCmd = &cobra.Command{
	Use:   "register -u <userName> [--endpoint <url>] [-d <dataSetId>] [--env <name>]",
	Short: "Store the user name and defaults in the configuration file",
	Long: `Writes the given values into an INI section of ~/.xyztai.ini, creating the
file when needed. The section is named after --env, "default" otherwise.

Passwords and other secrets are never written; pass them with -p or
XYZT_PASSWORD (AWS_* for s3:// inputs) on every run.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if utils.CredentialsFromViper().UserName == "" {
			return usageErrorf("missing required -u <userName>")
		}
		for flag, key := range registerFlags {
			if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
				viper.Set(key, f.Value.String())
			}
		}
		env := envName
		if env == "" {
			env = viper.GetString(utils.CurrentEnvironment)
		}
		iniPath, err := utils.SaveEnvironment(env)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Environment %q saved to %s\n", env, iniPath)
		return err
	},
}

func init() {
	f := RegisterCmd.Flags()
	f.StringP("dataset", "d", "", "Default data set id")
	f.String("timeout", "", "HTTP timeout, e.g. 30s")
	f.String("aws-region", "", "Region for s3:// inputs")
	f.String("aws-endpoint-url", "", "Custom S3 endpoint")
}
