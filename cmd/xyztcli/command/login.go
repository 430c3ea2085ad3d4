// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xyztai/xyzt-cli-sdk/sdk/services/auth"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
)

var LoginCmd = &cobra.Command{
	Use:   "login -u <userName> -p <password>",
	Short: "Request a platform token and print it",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireCredentials(); err != nil {
			return err
		}
		svc, err := auth.NewAuthService(cmd.Context(), utils.SDKConfigFromViper())
		if err != nil {
			return err
		}
		token, err := svc.GetToken(cmd.Context(), utils.CredentialsFromViper())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}
