package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/yiblet/omikuji/internal/clipboard"
	"github.com/yiblet/omikuji/internal/clipboard/sysboard"
	"github.com/yiblet/omikuji/internal/collections"
	"github.com/yiblet/omikuji/internal/config"
	"github.com/yiblet/omikuji/internal/draw"
	"github.com/yiblet/omikuji/internal/haptics"
	"github.com/yiblet/omikuji/internal/logging"
	"github.com/yiblet/omikuji/internal/migrate"
	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/presets"
	"github.com/yiblet/omikuji/internal/store"
	"github.com/yiblet/omikuji/internal/store/dbstore"
	"github.com/yiblet/omikuji/internal/store/memstore"
	"github.com/yiblet/omikuji/internal/store/redisstore"
	"github.com/yiblet/omikuji/internal/theme"
	"github.com/yiblet/omikuji/internal/tui"
)

// DefaultDBName is the SQLite file created in the config directory.
const DefaultDBName = "omikuji.db"

// CLI handles the command-line interface
type CLI struct {
	config        *config.Config
	configManager *config.ConfigManager
	store         store.Store
	manager       *collections.Manager
	report        migrate.Report
	clipboard     clipboard.Clipboard
	logger        *zap.Logger
	out           io.Writer
	in            io.Reader
}

// Option overrides a dependency, mostly for tests.
type Option func(*CLI)

// WithStore uses s instead of opening the configured backend.
func WithStore(s store.Store) Option {
	return func(c *CLI) { c.store = s }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(cb clipboard.Clipboard) Option {
	return func(c *CLI) { c.clipboard = cb }
}

// WithOutput redirects command output.
func WithOutput(w io.Writer) Option {
	return func(c *CLI) { c.out = w }
}

// WithInput replaces stdin.
func WithInput(r io.Reader) Option {
	return func(c *CLI) { c.in = r }
}

// WithLogger replaces the configured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *CLI) { c.logger = l }
}

// New creates a new CLI instance
func New() (*CLI, error) {
	return NewWithArgs(nil)
}

// NewWithArgs creates a new CLI instance honoring the global flags. The
// stored state is loaded (and migrated if needed) before returning.
func NewWithArgs(args *Args, opts ...Option) (*CLI, error) {
	if args == nil {
		args = &Args{}
	}

	c := &CLI{out: os.Stdout, in: os.Stdin}
	for _, opt := range opts {
		opt(c)
	}

	// Determine config path (precedence: flag > default)
	if args.ConfigPath != nil {
		c.configManager = config.NewConfigManagerWithPath(*args.ConfigPath)
	} else {
		cm, err := config.NewConfigManager()
		if err != nil {
			return nil, err
		}
		c.configManager = cm
	}

	cfg, err := c.configManager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.config = cfg

	if c.logger == nil {
		c.logger = logging.NewOrNop(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	}

	if c.store == nil {
		s, err := openStore(cfg, args.DBPath, c.logger)
		if err != nil {
			return nil, err
		}
		c.store = s
	}

	engine := migrate.NewEngine(c.store, c.logger)
	state, report, err := engine.Load()
	if err != nil {
		c.store.Close()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	c.report = report

	c.manager = collections.NewManager(state, engine.Codec(),
		collections.WithMaxItems(cfg.MaxItems),
		collections.WithHistoryLimit(cfg.HistoryLimit),
		collections.WithHistoryEnabled(cfg.HistoryEnabled),
		collections.WithLogger(c.logger),
	)

	if c.clipboard == nil {
		c.clipboard = sysboard.New()
	}

	return c, nil
}

// openStore opens the backend selected by the config. An explicit --db
// always means SQLite.
func openStore(cfg *config.Config, dbFlag *string, logger *zap.Logger) (store.Store, error) {
	driver := cfg.Storage.Driver
	if dbFlag != nil {
		driver = config.DriverSQLite
	}

	switch driver {
	case config.DriverMemory:
		return memstore.NewMemoryStore(), nil

	case config.DriverRedis:
		s, err := redisstore.New(redisstore.Config{
			Addr:    cfg.Storage.RedisAddr,
			DB:      cfg.Storage.RedisDB,
			Prefix:  cfg.Storage.RedisPrefix,
			Timeout: cfg.Storage.Timeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		return s, nil

	default:
		// Determine database path (precedence: flag > config > default)
		var dbPath string
		switch {
		case dbFlag != nil:
			dbPath = *dbFlag
		case cfg.Storage.Path != "":
			dbPath = cfg.Storage.Path
		default:
			configDir, err := config.DefaultDir()
			if err != nil {
				return nil, err
			}
			dbPath = filepath.Join(configDir, DefaultDBName)
		}

		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		s, err := dbstore.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create database store: %w", err)
		}
		return s, nil
	}
}

// Manager exposes the collection manager.
func (c *CLI) Manager() *collections.Manager {
	return c.manager
}

// Report describes how the state was loaded.
func (c *CLI) Report() migrate.Report {
	return c.report
}

// Close releases the store and flushes the logger.
func (c *CLI) Close() error {
	_ = c.logger.Sync()
	return c.store.Close()
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute(args *Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	switch {
	case args.Draw != nil:
		return c.executeDraw(args.Draw)
	case args.Groups != nil:
		return c.executeGroups()
	case args.Group != nil:
		return c.executeGroup(args.Group)
	case args.Items != nil:
		return c.executeItems(args.Items)
	case args.Item != nil:
		return c.executeItem(args.Item)
	case args.Presets != nil:
		return c.executePresets()
	case args.Preset != nil:
		return c.executePreset(args.Preset)
	case args.History != nil:
		return c.executeHistory(args.History)
	case args.Theme != nil:
		return c.executeTheme(args.Theme)
	case args.Config != nil:
		return c.executeConfig(args.Config)
	default:
		// Default behavior: launch TUI
		return c.launchTUI()
	}
}

// executeDraw handles the 'omikuji draw' command
func (c *CLI) executeDraw(cmd *DrawCmd) error {
	res, err := c.manager.DrawFrom(cmd.Group)
	if err != nil {
		if errors.Is(err, draw.ErrEmptyCollection) {
			return fmt.Errorf("nothing to draw: add items with 'omikuji item add' or apply a preset")
		}
		return fmt.Errorf("failed to draw: %w", err)
	}

	fmt.Fprintln(c.out, res.Text())

	if cmd.Clipboard {
		msg, err := clipboard.Copy(c.clipboard, res.Text())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, msg)
	}
	return nil
}

// executeGroups handles the 'omikuji groups' command
func (c *CLI) executeGroups() error {
	active := c.manager.ActiveID()
	for _, col := range c.manager.Collections() {
		marker := " "
		if col.ID == active {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %-44s %-20s %-8s %d items\n", marker, col.ID, col.Name, col.Mode, len(col.Items))
	}
	return nil
}

// executeGroup handles the 'omikuji group' command
func (c *CLI) executeGroup(cmd *GroupCmd) error {
	switch {
	case cmd.Add != nil:
		var (
			col model.Collection
			err error
		)
		if cmd.Add.Preset != "" {
			col, err = c.manager.CreateFromPreset(cmd.Add.Preset)
			if err == nil {
				err = c.manager.RenameCollection(col.ID, cmd.Add.Name)
				col.Name = strings.TrimSpace(cmd.Add.Name)
			}
		} else {
			col, err = c.manager.AddCollection(cmd.Add.Name)
		}
		if err != nil {
			return fmt.Errorf("failed to add collection: %w", err)
		}
		fmt.Fprintf(c.out, "Created %s (%s, %d items)\n", col.ID, col.Name, len(col.Items))
		return nil

	case cmd.Delete != nil:
		if err := c.manager.DeleteCollection(cmd.Delete.ID); err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}
		fmt.Fprintf(c.out, "Deleted %s\n", cmd.Delete.ID)
		return nil

	case cmd.Select != nil:
		// Select itself falls back to the default; the CLI reports the typo instead.
		col, err := c.manager.Collection(cmd.Select.ID)
		if err != nil {
			return err
		}
		if err := c.manager.Select(col.ID); err != nil {
			return fmt.Errorf("failed to select collection: %w", err)
		}
		fmt.Fprintf(c.out, "Active collection: %s\n", col.Name)
		return nil

	case cmd.Mode != nil:
		mode, err := model.ParseMode(cmd.Mode.Mode)
		if err != nil {
			return err
		}
		if err := c.manager.SetMode(cmd.Mode.ID, mode); err != nil {
			return fmt.Errorf("failed to set mode: %w", err)
		}
		fmt.Fprintf(c.out, "Mode set to %s\n", mode)
		return nil

	case cmd.Rename != nil:
		if err := c.manager.RenameCollection(cmd.Rename.ID, cmd.Rename.Name); err != nil {
			return fmt.Errorf("failed to rename collection: %w", err)
		}
		fmt.Fprintf(c.out, "Renamed %s to %s\n", cmd.Rename.ID, strings.TrimSpace(cmd.Rename.Name))
		return nil

	default:
		return fmt.Errorf("no group subcommand specified")
	}
}

// executeItems handles the 'omikuji items' command
func (c *CLI) executeItems(cmd *ItemsCmd) error {
	col, err := c.manager.Collection(cmd.Group)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s (%s)\n", col.Name, col.Mode)
	if col.Mode == model.ModeDice {
		fmt.Fprintln(c.out, "  dice collections roll 1-6 and ignore their items")
	}
	if len(col.Items) == 0 {
		fmt.Fprintln(c.out, "  no items")
		return nil
	}
	for i, it := range col.Items {
		fmt.Fprintf(c.out, "  [%d] %s\n", i, displayContent(it.Content))
	}
	return nil
}

// executeItem handles the 'omikuji item' command
func (c *CLI) executeItem(cmd *ItemCmd) error {
	switch {
	case cmd.Add != nil:
		var text string
		if cmd.Add.Text != nil {
			text = *cmd.Add.Text
		} else {
			data, err := io.ReadAll(c.in)
			if err != nil {
				return fmt.Errorf("failed to read item from stdin: %w", err)
			}
			text = strings.TrimRight(string(data), "\r\n")
		}

		item, err := c.manager.AddItem(cmd.Add.Group, text)
		if err != nil {
			if errors.Is(err, collections.ErrCapacityExceeded) {
				return fmt.Errorf("%w (raise it with 'omikuji config set max-items N')", err)
			}
			return fmt.Errorf("failed to add item: %w", err)
		}
		fmt.Fprintf(c.out, "Added: %s\n", displayContent(item.Content))
		return nil

	case cmd.Remove != nil:
		if err := c.manager.RemoveItem(cmd.Remove.Group, cmd.Remove.Index); err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		fmt.Fprintf(c.out, "Removed item %d\n", cmd.Remove.Index)
		return nil

	case cmd.Set != nil:
		if err := c.manager.SetItemContent(cmd.Set.Group, cmd.Set.Index, cmd.Set.Text); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		fmt.Fprintf(c.out, "Updated item %d\n", cmd.Set.Index)
		return nil

	default:
		return fmt.Errorf("no item subcommand specified")
	}
}

// executePresets handles the 'omikuji presets' command
func (c *CLI) executePresets() error {
	for _, p := range presets.All() {
		fmt.Fprintf(c.out, "%-12s %-16s %-8s %3d items  %s\n", p.Name, p.Title, p.Mode, len(p.Items), p.Description)
	}
	return nil
}

// executePreset handles the 'omikuji preset' command
func (c *CLI) executePreset(cmd *PresetCmd) error {
	apply := cmd.Apply
	var (
		col model.Collection
		err error
	)
	if apply.New {
		col, err = c.manager.CreateFromPreset(apply.Name)
	} else {
		col, err = c.manager.ApplyPreset(apply.Name)
	}
	if err != nil {
		if errors.Is(err, presets.ErrUnknownPreset) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(presets.Names(), ", "))
		}
		return fmt.Errorf("failed to apply preset: %w", err)
	}
	fmt.Fprintf(c.out, "%s now has %d items (%s)\n", col.Name, len(col.Items), col.Mode)
	return nil
}

// executeHistory handles the 'omikuji history' command
func (c *CLI) executeHistory(cmd *HistoryCmd) error {
	if cmd.Clear != nil {
		return c.executeHistoryClear(cmd.Clear)
	}

	history := c.manager.History()
	if len(history) == 0 {
		fmt.Fprintln(c.out, "No draws yet.")
		return nil
	}
	if cmd.Limit > 0 && len(history) > cmd.Limit {
		history = history[:cmd.Limit]
	}
	for _, h := range history {
		fmt.Fprintf(c.out, "%s  %-20s %s\n", h.Timestamp, h.CollectionName, displayContent(h.ResultText))
	}
	return nil
}

// executeHistoryClear handles the 'omikuji history clear' command
func (c *CLI) executeHistoryClear(cmd *HistoryClearCmd) error {
	n := len(c.manager.History())
	if n == 0 {
		fmt.Fprintln(c.out, "History is already empty.")
		return nil
	}

	// Prompt for confirmation unless --force is used
	if !cmd.Force {
		fmt.Fprintf(c.out, "This will delete %d history entr%s. Continue? [y/N]: ", n, plural(n, "y", "ies"))
		response, _ := bufio.NewReader(c.in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(c.out, "Cancelled.")
			return nil
		}
	}

	if err := c.manager.ClearHistory(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(c.out, "Cleared %d history entr%s.\n", n, plural(n, "y", "ies"))
	return nil
}

// executeTheme handles the 'omikuji theme' command
func (c *CLI) executeTheme(cmd *ThemeCmd) error {
	if cmd.Theme == nil {
		t, err := theme.Load(c.store)
		if err != nil {
			return fmt.Errorf("failed to read theme: %w", err)
		}
		fmt.Fprintln(c.out, t)
		return nil
	}

	t, err := theme.Parse(*cmd.Theme)
	if err != nil {
		return err
	}
	if err := theme.Save(c.store, t); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Theme set to %s\n", t)
	return nil
}

// executeConfig handles the 'omikuji config' command
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		value, err := c.configManager.Get(cmd.Get.Key)
		if err != nil {
			return fmt.Errorf("failed to get config value: %w", err)
		}
		fmt.Fprintln(c.out, value)
		return nil

	case cmd.Set != nil:
		if err := c.configManager.Update(cmd.Set.Key, cmd.Set.Value); err != nil {
			return fmt.Errorf("failed to set config value: %w", err)
		}
		fmt.Fprintf(c.out, "Set %s = %s\n", cmd.Set.Key, cmd.Set.Value)
		return nil

	case cmd.List != nil:
		values, err := c.configManager.List()
		if err != nil {
			return fmt.Errorf("failed to list config values: %w", err)
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(c.out, "Current configuration (%s):\n", c.configManager.GetConfigPath())
		for _, k := range keys {
			fmt.Fprintf(c.out, "  %s = %s\n", k, values[k])
		}
		return nil

	default:
		return fmt.Errorf("no config subcommand specified")
	}
}

// launchTUI starts the interactive TUI
func (c *CLI) launchTUI() error {
	t, err := theme.Load(c.store)
	if err != nil {
		c.logger.Warn("failed to read theme", zap.Error(err))
	}

	var bridge haptics.Bridge
	if c.config.Haptics {
		bridge = haptics.NewBell(os.Stderr, haptics.RevealMillis)
	}

	m := tui.New(tui.Options{
		Manager:   c.manager,
		Store:     c.store,
		Theme:     t,
		Clipboard: c.clipboard,
		Haptics:   bridge,
		Timing: draw.Timing{
			Shake:  c.config.Animation.Shake,
			Reveal: c.config.Animation.Reveal,
		},
		Logger: c.logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// displayContent renders blank item text visibly.
func displayContent(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(empty)"
	}
	return strings.ReplaceAll(s, "\n", " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
