// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/spf13/cobra"
	"github.com/xyztai/xyzt-cli-sdk/sdk/services/dataset"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

var datasetsOutput string

var DatasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect the data sets of the account",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the data sets visible to the user",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireCredentials(); err != nil {
			return err
		}
		svc, err := dataset.NewDatasetService(cmd.Context(), utils.SDKConfigFromViper())
		if err != nil {
			return err
		}
		ds, err := svc.List(cmd.Context(), utils.CredentialsFromViper())
		if err != nil {
			return err
		}
		return printDatasets(cmd.OutOrStdout(), datasetsOutput, ds)
	},
}

func init() {
	datasetsListCmd.Flags().StringVarP(&datasetsOutput, "output", "o", "short", "Output format: short, json or yaml")
	DatasetsCmd.AddCommand(datasetsListCmd)
}
