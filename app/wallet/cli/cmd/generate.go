package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/wallet"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <name>",
	Args:  cobra.ExactArgs(1),
	Short: "Generate new key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		dest, err := accountKeyPath(cmd, args[0])
		if err != nil {
			return err
		}

		return runKeyGen(dest)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runKeyGen(dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("key %s already exists", dest)
	}

	w, err := wallet.Generate()
	if err != nil {
		return err
	}

	if err := w.Save(dest); err != nil {
		return err
	}

	log.Infow("generate", "status", "key saved", "path", dest)
	fmt.Println(w.Address())

	return nil
}
