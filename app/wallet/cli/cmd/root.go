// Package cmd contains wallet app commands.
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamwoolhether/htdfsign/foundation/logger"
)

const keyExt = ".ecdsa"

// log writes progress to stderr so stdout only carries command output.
var log *zap.SugaredLogger

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "HTDF wallet to manage keys and sign transfers",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New("WALLET", "stderr")
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringP("url", "u", "http://localhost:1317", "Url of the node's REST interface.")
}

func keyPath(acctName, path string) string {
	if !strings.HasSuffix(acctName, keyExt) {
		acctName += keyExt
	}

	return filepath.Join(path, acctName)
}

func accountKeyPath(cmd *cobra.Command, acctName string) (string, error) {
	path, err := cmd.Flags().GetString("account-path")
	if err != nil {
		return "", err
	}

	return keyPath(acctName, path), nil
}
