package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/node"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/wallet"
)

var query bool

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account <name>",
	Args:  cobra.ExactArgs(1),
	Short: "Print account for the specific wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := accountKeyPath(cmd, args[0])
		if err != nil {
			return err
		}

		url, err := cmd.Flags().GetString("url")
		if err != nil {
			return err
		}

		return runAccount(user, url)
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().BoolVarP(&query, "query", "q", false, "Query the node for account number and sequence.")
}

func runAccount(user string, url string) error {
	w, err := wallet.Load(user)
	if err != nil {
		return err
	}

	fmt.Println("address:", w.Address())
	fmt.Println("pubkey: ", w.PublicKeyHex())

	if !query {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	acct, err := node.New(url, 10*time.Second).Account(ctx, w.Address())
	if err != nil {
		if errors.Is(err, node.ErrAccountNotFound) {
			fmt.Println("account has not been funded yet")
			return nil
		}
		return err
	}

	fmt.Println("account_number:", acct.AccountNumber)
	fmt.Println("sequence:      ", acct.Sequence)

	return nil
}
