package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qm4/xtxid/txid"
)

var ondemandDocs documentFlags

var ondemandCmd = &cobra.Command{
	Use:   "ondemand-url",
	Short: "Print the ondemand.s script URL referenced by the home page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		html, err := ondemandDocs.loadHome(cmd)
		if err != nil {
			return err
		}
		u, err := txid.ExtractOnDemandURL(html)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	},
}

func init() {
	ondemandDocs.register(ondemandCmd, false)
	rootCmd.AddCommand(ondemandCmd)
}
