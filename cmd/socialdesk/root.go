package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"socialdesk/internal/backend"
	"socialdesk/internal/cmdlog"
	"socialdesk/internal/config"
	"socialdesk/internal/logging"
	"socialdesk/internal/metrics"
	"socialdesk/internal/store/journal"
	"socialdesk/internal/theme"
)

const defaultConfigPath = "./socialdesk.yaml"

// app is what a command gets once flags, env and the config file are resolved.
type app struct {
	cfg     config.Config
	client  backend.Client
	journal *journal.DB
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func (a *app) recorder() journal.Recorder {
	if a.journal == nil {
		return nil
	}
	return a.journal
}

// run wraps a read-only command.
func (a *app) run(name string, f func() error) error {
	return cmdlog.Record(context.Background(), nil, name, "", f)
}

// act wraps a mutating command and journals its outcome.
func (a *app) act(ctx context.Context, name, id string, f func() error) error {
	return cmdlog.Record(ctx, a.recorder(), name, id, f)
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "socialdesk",
		Short:         "Operator console for the social media scheduling backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpTemplate(theme.Banner() + "\n" + root.HelpTemplate())

	pf := root.PersistentFlags()
	pf.String("config", defaultConfigPath, "config file path")
	pf.String("base-url", "", "backend base URL (overrides config)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-file", "", "write logs to this file")
	pf.String("journal", "", "action journal sqlite path (overrides config)")
	_ = v.BindPFlags(pf)
	v.SetEnvPrefix("SOCIALDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	load := func(interactive bool) (*app, error) { return loadApp(v, interactive) }

	root.AddCommand(
		newInitCmd(),
		newTUICmd(load),
		newStatsCmd(load),
		newPostsCmd(load),
		newCommentsCmd(load),
		newEventsCmd(load),
		newTemplatesCmd(load),
		newScheduleCmd(load),
		newMonitorCmd(load),
		newWatchCmd(load),
		newHistoryCmd(load),
	)
	return root
}

type loader func(interactive bool) (*app, error)

// loadApp resolves configuration in order: defaults, config file, env, flags.
// A missing file at the default path is not an error.
func loadApp(v *viper.Viper, interactive bool) (*app, error) {
	path := v.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || path != defaultConfigPath {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = config.Default()
		cfg.ResolveEnv()
	}
	if s := v.GetString("base-url"); s != "" {
		cfg.API.BaseURL = s
	}
	if s := v.GetString("log-level"); s != "" {
		cfg.Log.Level = s
	}
	if s := v.GetString("log-file"); s != "" {
		cfg.Log.File = s
	}
	if v.IsSet("journal") || v.GetString("journal") != "" {
		cfg.Storage.JournalPath = v.GetString("journal")
	}

	a := &app{cfg: cfg}
	logCloser, err := logging.Setup(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Discard: interactive,
	})
	if err != nil {
		return nil, err
	}
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}
	if cfg.Storage.JournalPath != "" {
		db, err := journal.Open(cfg.Storage.JournalPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		a.journal = db
		a.closers = append(a.closers, db)
	}
	if cfg.Metrics.Addr != "" {
		metrics.StartServer(cfg.Metrics.Addr)
	}
	if cfg.API.Token == "" {
		logging.Warn("missing_api_token", map[string]any{"hint": "set SOCIALDESK_API_TOKEN if the backend requires auth"})
	}
	a.client = backend.NewHTTPClient(backend.Options{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
		RPS:     cfg.API.RPS,
		Burst:   cfg.API.Burst,
	})
	return a, nil
}

// confirm asks a yes/no question on the command's streams; yes skips it.
func confirm(cmd *cobra.Command, yes bool, prompt string) (bool, error) {
	if yes {
		return true, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	ans := strings.ToLower(strings.TrimSpace(line))
	return ans == "y" || ans == "yes", nil
}

func newInitCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdlog.Run("init", func() error {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists", path)
				}
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), theme.Banner())
				fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&path, "path", defaultConfigPath, "where to write the config")
	return cmd
}
