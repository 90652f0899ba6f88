package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errAPIDown = errors.New("REST API unreachable")

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the article service answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gw, err := newGateway(cfg, cliLogger(cfg))
		if err != nil {
			return err
		}
		if !gw.CheckHealth(cmd.Context()) {
			fmt.Fprintf(cmd.OutOrStdout(), "REST API: Offline (%s)\n", gw.BaseURL())
			return errAPIDown
		}
		fmt.Fprintf(cmd.OutOrStdout(), "REST API: Online (%s)\n", gw.BaseURL())
		return nil
	},
}
