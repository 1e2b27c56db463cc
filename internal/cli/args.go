package cli

import (
	"fmt"
	"strings"

	"github.com/yiblet/omikuji/internal/config"
	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/theme"
)

// Args represents the top-level command structure
type Args struct {
	DBPath     *string `arg:"--db" help:"Path to the SQLite database (default ~/.config/omikuji/omikuji.db)"`
	ConfigPath *string `arg:"--config" help:"Path to the config file (default ~/.config/omikuji/config.yaml)"`

	Draw    *DrawCmd    `arg:"subcommand:draw" help:"Draw from a collection"`
	Groups  *GroupsCmd  `arg:"subcommand:groups" help:"List collections"`
	Group   *GroupCmd   `arg:"subcommand:group" help:"Manage collections"`
	Items   *ItemsCmd   `arg:"subcommand:items" help:"List the items of a collection"`
	Item    *ItemCmd    `arg:"subcommand:item" help:"Manage items"`
	Presets *PresetsCmd `arg:"subcommand:presets" help:"List built-in presets"`
	Preset  *PresetCmd  `arg:"subcommand:preset" help:"Apply a built-in preset"`
	History *HistoryCmd `arg:"subcommand:history" help:"Show or clear the draw history"`
	Theme   *ThemeCmd   `arg:"subcommand:theme" help:"Show or set the color theme"`
	Config  *ConfigCmd  `arg:"subcommand:config" help:"Manage configuration"`
	TUI     *TUICmd     `arg:"subcommand:tui" help:"Open the interactive interface (default)"`
}

// DrawCmd represents 'omikuji draw'
type DrawCmd struct {
	Group     string `arg:"-g,--group" help:"Collection id (default: active collection)"`
	Clipboard bool   `arg:"-c,--clipboard" help:"Copy the result to the clipboard"`
}

// GroupsCmd represents 'omikuji groups'
type GroupsCmd struct{}

// GroupCmd represents 'omikuji group'
type GroupCmd struct {
	Add    *GroupAddCmd    `arg:"subcommand:add" help:"Create a collection and make it active"`
	Delete *GroupDeleteCmd `arg:"subcommand:delete" help:"Delete a collection"`
	Select *GroupSelectCmd `arg:"subcommand:select" help:"Make a collection active"`
	Mode   *GroupModeCmd   `arg:"subcommand:mode" help:"Set a collection's draw mode"`
	Rename *GroupRenameCmd `arg:"subcommand:rename" help:"Rename a collection"`
}

type GroupAddCmd struct {
	Name   string `arg:"positional,required" help:"Collection name"`
	Preset string `arg:"-p,--preset" help:"Fill the new collection from a preset"`
}

type GroupDeleteCmd struct {
	ID string `arg:"positional,required" help:"Collection id"`
}

type GroupSelectCmd struct {
	ID string `arg:"positional,required" help:"Collection id"`
}

type GroupModeCmd struct {
	ID   string `arg:"positional,required" help:"Collection id"`
	Mode string `arg:"positional,required" help:"omikuji, dice or cards"`
}

type GroupRenameCmd struct {
	ID   string `arg:"positional,required" help:"Collection id"`
	Name string `arg:"positional,required" help:"New name"`
}

// ItemsCmd represents 'omikuji items'
type ItemsCmd struct {
	Group string `arg:"-g,--group" help:"Collection id (default: active collection)"`
}

// ItemCmd represents 'omikuji item'
type ItemCmd struct {
	Add    *ItemAddCmd    `arg:"subcommand:add" help:"Append an item"`
	Remove *ItemRemoveCmd `arg:"subcommand:remove" help:"Remove an item by index"`
	Set    *ItemSetCmd    `arg:"subcommand:set" help:"Replace an item's text"`
}

type ItemAddCmd struct {
	Group string  `arg:"-g,--group" help:"Collection id (default: active collection)"`
	Text  *string `arg:"positional" help:"Item text (read from stdin if omitted)"`
}

type ItemRemoveCmd struct {
	Group string `arg:"-g,--group" help:"Collection id (default: active collection)"`
	Index int    `arg:"positional,required" help:"Item index (0 = first)"`
}

type ItemSetCmd struct {
	Group string `arg:"-g,--group" help:"Collection id (default: active collection)"`
	Index int    `arg:"positional,required" help:"Item index (0 = first)"`
	Text  string `arg:"positional,required" help:"New text"`
}

// PresetsCmd represents 'omikuji presets'
type PresetsCmd struct{}

// PresetCmd represents 'omikuji preset'
type PresetCmd struct {
	Apply *PresetApplyCmd `arg:"subcommand:apply" help:"Replace the active collection's items with a preset"`
}

type PresetApplyCmd struct {
	Name string `arg:"positional,required" help:"Preset name"`
	New  bool   `arg:"--new" help:"Create a new collection instead of overwriting the active one"`
}

// HistoryCmd represents 'omikuji history'
type HistoryCmd struct {
	Limit int              `arg:"-n,--limit" help:"Show at most N entries (0 = all)"`
	Clear *HistoryClearCmd `arg:"subcommand:clear" help:"Delete all history entries"`
}

type HistoryClearCmd struct {
	Force bool `arg:"-f,--force" help:"Skip the confirmation prompt"`
}

// ThemeCmd represents 'omikuji theme'
type ThemeCmd struct {
	Theme *string `arg:"positional" help:"light, dark or system (omit to show the current theme)"`
}

// ConfigCmd represents 'omikuji config'
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Get a configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Set a configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"List all configuration values"`
}

type ConfigGetCmd struct {
	Key string `arg:"positional,required" help:"Configuration key"`
}

type ConfigSetCmd struct {
	Key   string `arg:"positional,required" help:"Configuration key"`
	Value string `arg:"positional,required" help:"Configuration value"`
}

type ConfigListCmd struct{}

// TUICmd represents 'omikuji tui'
type TUICmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "omikuji - draw fortunes, roll dice and pick cards from your own lists"
}

// Version returns the program version
func (Args) Version() string {
	return "omikuji 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  omikuji                          # Interactive interface
  omikuji draw                     # Draw from the active collection
  omikuji draw -c                  # Draw and copy the result

  # Collections
  omikuji groups                   # List collections
  omikuji group add Lunch --preset restaurant
  omikuji group mode default dice  # Roll a die instead of drawing

  # Items
  omikuji item add "Great Blessing"
  omikuji item remove 3
  omikuji items

  omikuji history -n 10            # Last ten draws
  omikuji config set max-items 0   # Remove the item cap`
}

// HasCommand reports whether any subcommand was given.
func (args *Args) HasCommand() bool {
	return args.Draw != nil || args.Groups != nil || args.Group != nil ||
		args.Items != nil || args.Item != nil || args.Presets != nil ||
		args.Preset != nil || args.History != nil || args.Theme != nil ||
		args.Config != nil || args.TUI != nil
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	switch {
	case args.Group != nil:
		return args.Group.Validate()
	case args.Item != nil:
		return args.Item.Validate()
	case args.Preset != nil:
		if args.Preset.Apply == nil {
			return fmt.Errorf("no preset subcommand specified")
		}
	case args.History != nil:
		if args.History.Limit < 0 {
			return fmt.Errorf("limit must be non-negative")
		}
	case args.Theme != nil:
		if args.Theme.Theme != nil {
			if _, err := theme.Parse(*args.Theme.Theme); err != nil {
				return err
			}
		}
	case args.Config != nil:
		return args.Config.Validate()
	}
	return nil
}

// Validate validates group command arguments
func (g *GroupCmd) Validate() error {
	switch {
	case g.Add != nil:
		if strings.TrimSpace(g.Add.Name) == "" {
			return fmt.Errorf("collection name must not be empty")
		}
	case g.Mode != nil:
		if _, err := model.ParseMode(g.Mode.Mode); err != nil {
			return err
		}
	case g.Rename != nil:
		if strings.TrimSpace(g.Rename.Name) == "" {
			return fmt.Errorf("collection name must not be empty")
		}
	case g.Delete == nil && g.Select == nil:
		return fmt.Errorf("no group subcommand specified")
	}
	return nil
}

// Validate validates item command arguments
func (i *ItemCmd) Validate() error {
	switch {
	case i.Remove != nil:
		if i.Remove.Index < 0 {
			return fmt.Errorf("index must be non-negative")
		}
	case i.Set != nil:
		if i.Set.Index < 0 {
			return fmt.Errorf("index must be non-negative")
		}
	case i.Add == nil:
		return fmt.Errorf("no item subcommand specified")
	}
	return nil
}

// Validate validates config command arguments
func (c *ConfigCmd) Validate() error {
	key := ""
	switch {
	case c.Get != nil:
		key = c.Get.Key
	case c.Set != nil:
		key = c.Set.Key
	case c.List != nil:
		return nil
	default:
		return fmt.Errorf("no config subcommand specified")
	}
	for _, k := range config.Keys() {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("unknown configuration key: %s (valid keys: %s)", key, strings.Join(config.Keys(), ", "))
}
