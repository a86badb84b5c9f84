package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bizplan-workers/internal/bootstrap"
	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/importer"
)

type options struct {
	configPath string
	baseURL    string
	token      string
	logLevel   string
	noColor    bool
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	opts options
	cfg  *config.Config
	log  logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bizplan",
		Short:         "Import and render business plan documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.configPath, "config", "c", "", "Config file (default configs/config.yaml)")
	flags.StringVar(&a.opts.baseURL, "base-url", "", "Override remote.base_url")
	flags.StringVar(&a.opts.token, "token", "", "Override remote.token")
	flags.StringVar(&a.opts.logLevel, "log-level", "warn", "Log level")
	flags.BoolVar(&a.opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		a.importCmd(),
		a.renderCmd(),
		a.keysCmd(),
		a.endpointsCmd(),
		a.checkCmd(),
	)
	return root
}

func (a *app) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if a.opts.configPath != "" {
		cfg, err = config.LoadFromFile(a.opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.opts.baseURL != "" {
		cfg.Remote.BaseURL = strings.TrimRight(a.opts.baseURL, "/")
	}
	if a.opts.token != "" {
		cfg.Remote.Token = a.opts.token
	}
	if a.opts.noColor {
		color.NoColor = true
	}

	a.cfg = cfg
	a.log = logger.NewZapAdapter(logger.New(a.opts.logLevel, "console"))
	return nil
}

// newImporter returns an importer over the remote API, or one that never
// sees remote data when offline is set.
func (a *app) newImporter(ctx context.Context, offline bool) (*importer.Importer, func() error) {
	if offline {
		return importer.New(offlineFetcher{}, importer.WithLogger(a.log)), func() error { return nil }
	}
	remote := bootstrap.NewRemote(ctx, a.cfg, a.log)
	return bootstrap.NewImporter(remote, a.log, nil, a.cfg.Remote.LenientFallback), remote.Close
}

type offlineFetcher struct{}

func (offlineFetcher) FetchJSON(context.Context, string) map[string]interface{} { return nil }

// readInput decodes a JSON or YAML object from path, or from stdin when path
// is "-" or empty.
func readInput(stdin io.Reader, path string) (map[string]interface{}, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var out map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := decodeYAML(data, &out); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &out); err != nil {
			if yerr := decodeYAML(data, &out); yerr != nil {
				return nil, fmt.Errorf("parse input: %w", err)
			}
		}
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out, nil
}

// decodeYAML goes through JSON so nested values have the same types as a
// JSON document.
func decodeYAML(data []byte, out *map[string]interface{}) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
