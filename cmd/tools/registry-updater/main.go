// cmd/tools/registry-updater/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"bizplan-workers/internal/common/config"
	"bizplan-workers/pkg/registry"
)

const defaultPath = "configs/section-registry.json"

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, now func() time.Time) error {
	if len(args) == 0 {
		help(out)
		return errors.New("missing command")
	}

	generateCmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	genPath := generateCmd.String("path", defaultPath, "Path to registry file")
	genBase := generateCmd.String("base-url", config.DefaultRemoteBaseURL, "Remote API base URL")

	rebaseCmd := flag.NewFlagSet("rebase", flag.ContinueOnError)
	rebasePath := rebaseCmd.String("path", defaultPath, "Path to registry file")
	rebaseBase := rebaseCmd.String("base-url", "", "New remote API base URL")

	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validatePath := validateCmd.String("path", defaultPath, "Path to registry file")

	for _, fs := range []*flag.FlagSet{generateCmd, rebaseCmd, validateCmd} {
		fs.SetOutput(out)
	}

	switch args[0] {
	case "generate":
		if err := generateCmd.Parse(args[1:]); err != nil {
			return err
		}
		reg := registry.Build(*genBase, now())
		if err := registry.SaveRegistry(reg, *genPath); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
		fmt.Fprintf(out, "Wrote %d sections to %s\n", len(reg.Sections), *genPath)

	case "rebase":
		if err := rebaseCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *rebaseBase == "" {
			rebaseCmd.Usage()
			return errors.New("base-url is required for rebase")
		}
		reg, err := registry.LoadRegistry(*rebasePath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg.Rebase(*rebaseBase, now())
		if err := registry.SaveRegistry(reg, *rebasePath); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
		fmt.Fprintf(out, "Rebased %s onto %s\n", *rebasePath, reg.BaseURL)

	case "validate":
		if err := validateCmd.Parse(args[1:]); err != nil {
			return err
		}
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Validate(); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintf(out, "Registry validation passed. Found %d sections and %d tasks.\n", len(reg.Sections), len(reg.Tasks))

	case "help":
		help(out)

	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprint(out, `
Usage: registry-updater <command> [flags]

Commands:
  generate  Write the section registry for a base URL
  rebase    Point an existing registry at a new base URL
  validate  Validate the registry file
  help      Show this help message

Examples:
  registry-updater generate -path configs/section-registry.json
  registry-updater rebase -base-url https://staging.example.com/api/bpc
  registry-updater validate -path configs/section-registry.json
`)
}
