package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/address"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/node"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/tran"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/wallet"
)

var (
	to        string
	amount    uint64
	fee       uint64
	gas       uint64
	memo      string
	data      string
	chainID   string
	acctNum   uint64
	sequence  uint64
	het       bool
	broadcast bool
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <name>",
	Short: "Sign a transfer and optionally broadcast it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := accountKeyPath(cmd, args[0])
		if err != nil {
			return err
		}

		url, err := cmd.Flags().GetString("url")
		if err != nil {
			return err
		}

		return runSend(user, url)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the receiving account.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send in satoshi.")
	sendCmd.Flags().Uint64Var(&fee, "fee", tran.DefaultFeeAmount, "Gas price in satoshi.")
	sendCmd.Flags().Uint64Var(&gas, "gas", tran.DefaultGas, "Gas wanted.")
	sendCmd.Flags().StringVarP(&memo, "memo", "m", "", "Memo attached to the transaction.")
	sendCmd.Flags().StringVarP(&data, "data", "d", "", "Data attached to the transfer.")
	sendCmd.Flags().StringVarP(&chainID, "chain", "c", tran.MainChainID, "Chain id.")
	sendCmd.Flags().Uint64VarP(&acctNum, "account-number", "n", 0, "Account number, looked up on the node when omitted.")
	sendCmd.Flags().Uint64VarP(&sequence, "sequence", "s", 0, "Account sequence, used with --account-number.")
	sendCmd.Flags().BoolVar(&het, "het", false, "Send as a hetservice transfer.")
	sendCmd.Flags().BoolVarP(&broadcast, "broadcast", "b", false, "Broadcast the signed transaction to the node.")
	sendCmd.MarkFlagRequired("to")
}

func runSend(user string, url string) error {
	w, err := wallet.Load(user)
	if err != nil {
		return err
	}

	if !address.Valid(to) {
		return fmt.Errorf("invalid recipient address %q", to)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := node.New(url, 10*time.Second)

	tx := tran.NewTransfer(chainID, w.Address(), to, amount)
	tx.FeeAmount = fee
	tx.Gas = gas
	tx.Memo = memo
	tx.Data = data
	tx.AccountNumber = acctNum
	tx.Sequence = sequence

	if tx.AccountNumber == 0 {
		acct, err := client.Account(ctx, w.Address())
		if err != nil {
			return fmt.Errorf("looking up account: %w", err)
		}
		tx.AccountNumber = acct.AccountNumber
		tx.Sequence = acct.Sequence
		log.Infow("send", "status", "account loaded", "account_number", acct.AccountNumber, "sequence", acct.Sequence)
	}

	btx, err := w.Sign(tx)
	if err != nil {
		return err
	}

	if het {
		btx.MsgType = tran.MsgTypeSendHET
	}

	hexTx, err := btx.Hex()
	if err != nil {
		return err
	}

	fmt.Println(hexTx)

	if !broadcast {
		return nil
	}

	res, err := client.Broadcast(ctx, hexTx)
	if err != nil {
		return err
	}

	log.Infow("send", "status", "broadcast", "txhash", res.TxHash, "height", res.Height)

	return nil
}
