package main

import (
	"github.com/adamwoolhether/htdfsign/app/wallet/cli/cmd"
)

func main() {
	cmd.Execute()
}
