// Command assetaudit-manpage prints the assetaudit(1) man page. Given a
// directory it writes one page per command there instead.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/assetaudit/cmd/assetaudit/commands"
	"github.com/arthur-debert/assetaudit/internal/version"
)

func main() {
	header := &doc.GenManHeader{
		Title:   "ASSETAUDIT",
		Section: "1",
		Source:  "assetaudit " + version.Version,
		Manual:  "Asset Audit Manual",
	}

	if err := generate(header, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
		os.Exit(1)
	}
}

func generate(header *doc.GenManHeader, args []string) error {
	rootCmd := commands.NewRootCmd()
	if len(args) == 0 {
		return doc.GenMan(rootCmd, header, os.Stdout)
	}
	dir := args[0]
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return doc.GenManTree(rootCmd, header, dir)
}
