// editcore-tui - a terminal form built on the editcore text fields
//
//	editcore-tui                 Edit the form (same as "run")
//	editcore-tui run             Edit the form
//	editcore-tui fields          List saved fields
//	editcore-tui verify          Check saved fields against their checksums
//	editcore-tui forget <id>     Delete a saved field
//	editcore-tui config          Show or create the configuration file
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"editcore/cmd/editcore-tui/internal/termbridge"
	"editcore/internal/config"
	"editcore/internal/input"
	"editcore/internal/logging"
	"editcore/internal/selection"
	"editcore/internal/store"
)

func main() {
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "run":
		err = cmdRun(args)
	case "fields":
		err = cmdFields(args)
	case "verify":
		err = cmdVerify(args)
	case "forget":
		err = cmdForget(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`editcore-tui - terminal text fields

USAGE:
    editcore-tui [command] [options]

COMMANDS:
    run                 Edit the form (default)
    fields              List saved fields
    verify              Check saved fields against their checksums
    forget <id>         Delete a saved field
    config              Show the configuration file, creating it if missing
    help                Show this help message

OPTIONS:
    -config <path>      Configuration file (default: search the working
                        directory, then the config directory)

KEYS:
    tab / shift+tab     Move between fields
    ctrl+a/c/x/v        Select all, copy, cut, paste
    ctrl+z / ctrl+y     Undo, redo
    alt+<key>           Run a toolbar entry while it is shown
    ctrl+s              Save
    ctrl+q, esc         Save and quit`)
}

func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "configuration file")
}

// resolveConfigPath picks the file to load when none is given.
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if found := config.FindConfigFile(); found != "" {
		return found
	}
	return config.ConfigPath()
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.NewLoader(path).Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// openStore opens the field store with a checksum key kept next to it.
func openStore(cfg *config.Config) (*store.Store, error) {
	if !cfg.Store.Enabled {
		return nil, nil
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	key, err := loadOrCreateKey(cfg.Store.Path + ".key")
	if err != nil {
		return nil, err
	}
	return store.OpenKeyed(cfg.Store.Path, key)
}

func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != 32 {
			return nil, fmt.Errorf("checksum key %s: expected 32 bytes, got %d", path, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read checksum key: %w", err)
	}

	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate checksum key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, key, 0600); err != nil {
		return nil, fmt.Errorf("write checksum key: %w", err)
	}
	return key, nil
}

// bridges is the input plumbing chosen by the configuration.
type bridges struct {
	platform input.PlatformTextInputBridge
	term     *termbridge.Bridge
	ime      keyForwarder
	close    func() error
}

func newBridges(cfg *config.Config, logger *slog.Logger, post func(func())) (*bridges, error) {
	b := &bridges{close: func() error { return nil }}

	useIBus := func() error {
		ibus, err := input.NewIBusBridge(input.IBusOptions{
			Address: cfg.Input.IBusAddress,
			Post:    post,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		b.platform = ibus
		b.ime = ibus
		b.close = ibus.Close
		return nil
	}
	useTerminal := func() {
		b.term = termbridge.New(logger)
		b.platform = b.term
	}

	switch cfg.Input.Bridge {
	case config.BridgeNone:
	case config.BridgeTerminal:
		useTerminal()
	case config.BridgeIBus:
		if err := useIBus(); err != nil {
			return nil, err
		}
	default:
		// Terminals deliver composed text themselves; IBus is only used
		// when an address says where to find it.
		if cfg.Input.IBusAddress == "" {
			useTerminal()
			break
		}
		if err := useIBus(); err != nil {
			if !errors.Is(err, input.ErrBridgeUnavailable) {
				return nil, err
			}
			logger.Info("ibus unavailable, using the terminal", "error", err)
			useTerminal()
		}
	}
	return b, nil
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := configFlag(fs)
	watch := fs.Bool("watch", true, "reload the configuration when it changes")
	fs.Parse(args)

	path := resolveConfigPath(*configPath)
	loader := config.NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	lc := cfg.LoggerConfig()
	lc.Component = "tui"
	if lc.Output == "stdout" || lc.Output == "stderr" || lc.Output == "both" {
		// The terminal belongs to the form.
		lc.Output = "file"
		if lc.FilePath == "" {
			lc.FilePath = logging.DefaultLogPath()
		}
	}
	appLog, err := logging.New(lc)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer appLog.Close()
	logger := appLog.Logger

	for _, w := range config.Check(cfg).Warnings() {
		logger.Warn("configuration", "field", w.Field, "message", w.Message)
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		defer st.Close()
	}

	// The program is created after the model; everything that posts to
	// it runs after Run has started.
	var program *tea.Program
	post := func(fn func()) { program.Send(postMsg(fn)) }

	br, err := newBridges(cfg, logger, post)
	if err != nil {
		return fmt.Errorf("input bridge: %w", err)
	}
	defer br.close()

	var service *input.TextInputService
	if br.platform != nil {
		service = input.NewTextInputService(br.platform, logger)
	}

	opts := modelOptions{
		Config:     cfg,
		ConfigPath: path,
		Logger:     logger,
		Service:    service,
		Term:       br.term,
		IME:        br.ime,
		Clipboard:  selection.SystemClipboard{},
		Post:       post,
	}
	if st != nil {
		opts.Store = st
	}
	m, err := newModel(opts)
	if err != nil {
		return err
	}
	m.restore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, ff := range m.fields {
		ff.field.Attach(ctx)
		defer ff.field.Detach()
	}

	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())

	if *watch {
		loader.OnChange(func(_, next *config.Config) { program.Send(configMsg{cfg: next}) })
		if err := loader.Watch(); err != nil {
			logger.Warn("config watch failed", "error", err)
		} else {
			defer loader.Close()
			go func() {
				for err := range loader.Errors() {
					program.Send(configErrMsg{err: err})
				}
			}()
		}
	}

	logger.Info("form started", "config", path, "bridge", cfg.Input.Bridge, "store", cfg.Store.Enabled)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	logger.Info("form closed")
	return nil
}

func withStore(args []string, name string, fn func(fs *flag.FlagSet, st *store.Store) error) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := configFlag(fs)
	fs.Parse(args)

	cfg, err := loadConfig(resolveConfigPath(*configPath))
	if err != nil {
		return err
	}
	if !cfg.Store.Enabled {
		return errors.New("the store is disabled in the configuration")
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(fs, st)
}

func cmdFields(args []string) error {
	return withStore(args, "fields", func(_ *flag.FlagSet, st *store.Store) error {
		ids, err := st.List()
		if err != nil {
			return err
		}
		stats, err := st.GetStats()
		if err != nil {
			return err
		}

		fmt.Printf("Saved fields: %d (%d characters)\n", stats.Fields, stats.TotalChars)
		if stats.LastUpdated != nil {
			fmt.Printf("Last saved: %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()

		for _, id := range ids {
			rec, err := st.Get(id)
			if err != nil {
				fmt.Printf("  %-12s %v\n", id, err)
				continue
			}
			fmt.Printf("  %-12s %5d chars  cursor %-9s %s\n",
				id, rec.Value.Len(), rec.Value.Selection, rec.UpdatedAt.Format(time.DateTime))
		}

		status, err := st.MigrationStatus()
		if err != nil {
			return err
		}
		fmt.Printf("\nSchema version: %d of %d\n", status.CurrentVersion, status.LatestVersion)
		return nil
	})
}

func cmdVerify(args []string) error {
	return withStore(args, "verify", func(_ *flag.FlagSet, st *store.Store) error {
		corrupt, err := st.VerifyAll()
		if err != nil {
			return err
		}
		if len(corrupt) == 0 {
			fmt.Println("All saved fields verified.")
			return nil
		}
		for _, id := range corrupt {
			fmt.Printf("  %s: checksum mismatch\n", id)
		}
		return fmt.Errorf("%d corrupt fields", len(corrupt))
	})
}

func cmdForget(args []string) error {
	return withStore(args, "forget", func(fs *flag.FlagSet, st *store.Store) error {
		if fs.NArg() != 1 {
			return errors.New("usage: editcore-tui forget [-config path] <id>")
		}
		id := fs.Arg(0)
		if err := st.Delete(id); err != nil {
			return err
		}
		fmt.Printf("Forgot %s\n", id)
		return nil
	})
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := configFlag(fs)
	fs.Parse(args)

	path := resolveConfigPath(*configPath)
	cfg, created, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Created %s\n", path)
	} else {
		fmt.Printf("Config: %s\n", path)
	}
	fmt.Printf("Input bridge: %s\n", cfg.Input.Bridge)
	fmt.Printf("Store: %s (enabled: %t)\n", cfg.Store.Path, cfg.Store.Enabled)
	fmt.Printf("Log: %s (%s, %s)\n", cfg.Logging.FilePath, cfg.Logging.Level, cfg.Logging.Output)

	for _, w := range config.Check(cfg).Warnings() {
		fmt.Printf("Warning: %s: %s\n", w.Field, w.Message)
	}
	return nil
}
