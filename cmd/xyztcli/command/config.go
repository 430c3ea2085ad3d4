// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/spf13/cobra"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

var configOutput string

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged flags, env and INI settings with secrets masked",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printSettings(cmd.OutOrStdout(), configOutput, utils.MaskedSettings())
	},
}

func init() {
	configShowCmd.Flags().StringVarP(&configOutput, "output", "o", "short", "Output format: short, json or yaml")
	ConfigCmd.AddCommand(configShowCmd)
}
