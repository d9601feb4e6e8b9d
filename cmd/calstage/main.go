package main

import (
	"fmt"
	"os"

	"github.com/gentoo-livegui/calstage/internal/cli"
	"github.com/gentoo-livegui/calstage/pkg/errors"
	"github.com/gentoo-livegui/calstage/pkg/output/styles"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Usage errors get the full help; operational failures stay terse
		if errors.IsErrorCode(err, errors.ErrInvalidInput) {
			fmt.Fprintln(os.Stderr)
			_ = rootCmd.Help()
		}

		os.Exit(1)
	}
}
