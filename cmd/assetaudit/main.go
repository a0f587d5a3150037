package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/assetaudit/cmd/assetaudit/commands"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/ui/styles"
)

// Exit codes. A fix that leaves assets unfixed exits with exitFixFailure.
const (
	exitError      = 1
	exitFixFailure = 2
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", "Error: "+err.Error()))
		if errors.IsErrorCode(err, errors.ErrApplyFailed) {
			os.Exit(exitFixFailure)
		}
		os.Exit(exitError)
	}
}
