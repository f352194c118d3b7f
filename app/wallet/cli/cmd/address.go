package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/address"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/signature"
)

var fromPrivate bool

// addressCmd represents the address command
var addressCmd = &cobra.Command{
	Use:   "address <hex>",
	Args:  cobra.ExactArgs(1),
	Short: "Derive the account address of a hex public key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAddress(cmd.OutOrStdout(), args[0], fromPrivate)
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
	addressCmd.Flags().BoolVar(&fromPrivate, "private", false, "Treat the argument as a hex private key.")
}

func runAddress(out io.Writer, in string, private bool) error {
	pubHex := in
	if private {
		var err error
		if pubHex, err = signature.PrivateKeyToCompressedPubKeyHex(in); err != nil {
			return err
		}
		fmt.Fprintln(out, "pubkey:", pubHex)
	}

	addr, err := address.FromPubKeyHex(pubHex)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "address:", addr)

	return nil
}
