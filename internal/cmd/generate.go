package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qm4/xtxid/txid"
)

var (
	generateDocs     documentFlags
	generateUnixTime int64
	generateHeader   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate METHOD PATH [PATH...]",
	Short: "Print transaction IDs for one or more API paths",
	Long: `Derive key material from x.com (or local --html/--js files) and print
one x-client-transaction-id per PATH, in order.

The path must be the request path without scheme and host, e.g.
/i/api/1.1/jot/client_event.json. Query strings are hashed as given.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGenerate,
}

func init() {
	generateDocs.register(generateCmd, true)
	generateCmd.Flags().Int64Var(&generateUnixTime, "unix-time", 0, "Sign as if the clock read this Unix time (seconds)")
	generateCmd.Flags().BoolVar(&generateHeader, "header", false, "Print each ID as an HTTP header line")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	method := strings.ToUpper(args[0])

	docs, err := generateDocs.load(cmd)
	if err != nil {
		return err
	}

	var opts []txid.Option
	if cmd.Flags().Changed("unix-time") {
		at := time.Unix(generateUnixTime, 0)
		opts = append(opts, txid.WithClock(func() time.Time { return at }))
	}

	ct, err := txid.New(docs.HomePageHTML, docs.OnDemandJS, opts...)
	if err != nil {
		return err
	}
	logf("animation key %s", ct.KeyMaterial().AnimationKey())

	out := cmd.OutOrStdout()
	for _, path := range args[1:] {
		id := ct.Generate(method, path)
		if generateHeader {
			fmt.Fprintf(out, "%s: %s\n", txid.HeaderName, id)
		} else {
			fmt.Fprintln(out, id)
		}
	}
	return nil
}
