// cmd/bizplan/main.go
package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"bizplan-workers/internal/common/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), describe(err))
		os.Exit(1)
	}
}

// describe adds the details of job errors, which Error() leaves out.
func describe(err error) string {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) && stdErr.Details != "" {
		return fmt.Sprintf("%s: %s", err, stdErr.Details)
	}
	return err.Error()
}
