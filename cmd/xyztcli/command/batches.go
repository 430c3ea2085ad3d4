// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xyztai/xyzt-cli-sdk/sdk/services/dataset"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

var BatchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "Manage the batches of a data set",
}

var batchesDeleteCmd = &cobra.Command{
	Use:   "delete <batch> -d <dataSetId>",
	Short: "Schedule the deletion of a batch",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasetID := datasetFlag(cmd)
		if datasetID == "" {
			return usageErrorf("missing required -d <dataSetId>")
		}
		if err := requireCredentials(); err != nil {
			return err
		}
		svc, err := dataset.NewDatasetService(cmd.Context(), utils.SDKConfigFromViper())
		if err != nil {
			return err
		}
		req := dataset.DeleteBatchRequest{DatasetID: datasetID, Batch: args[0]}
		if err := svc.DeleteBatch(cmd.Context(), utils.CredentialsFromViper(), req); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deletion of batch %s scheduled\n", utils.BatchName(args[0]))
		return err
	},
}

func init() {
	f := batchesDeleteCmd.Flags()
	f.StringP("dataset", "d", "", "Data set id (required)")
	BatchesCmd.AddCommand(batchesDeleteCmd)
}
