package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qm4/xtxid/txid"
)

var inspectDocs documentFlags

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the constants and key material extracted from the documents",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	inspectDocs.register(inspectCmd, true)
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	docs, err := inspectDocs.load(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ondemand url:     %s\n", docs.OnDemandURL)

	row, keyIdx, err := txid.ParseIndices(docs.OnDemandJS)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "row index:        %d\n", row)
	fmt.Fprintf(out, "key byte indices: %s\n", joinInts(keyIdx))

	key, err := txid.VerificationKey(docs.HomePageHTML)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "verification key: %s\n", key)
	fmt.Fprintf(out, "animation frames: %d\n", len(txid.AnimationFrames(docs.HomePageHTML)))

	km, err := txid.DeriveKeyMaterial(docs.HomePageHTML, docs.OnDemandJS)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "key bytes:        %s\n", hex.EncodeToString(km.KeyBytes()))
	fmt.Fprintf(out, "animation key:    %s\n", km.AnimationKey())
	return nil
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}
