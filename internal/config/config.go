package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// Config is the complete configuration.
type Config struct {
	Logging     LoggingConfig     `toml:"logging" yaml:"logging"`
	Keybindings KeybindingsConfig `toml:"keybindings" yaml:"keybindings"`
}

// LoggingConfig configures the root logger.
type LoggingConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`

	// Pretty selects human readable console output instead of JSON.
	Pretty bool `toml:"pretty" yaml:"pretty"`
}

// KeybindingsConfig configures special keys and bindings.
type KeybindingsConfig struct {
	OverlayKey          string `toml:"overlay_key" yaml:"overlay_key"`
	LocatePointerKey    string `toml:"locate_pointer_key" yaml:"locate_pointer_key"`
	LocatePointer       bool   `toml:"locate_pointer" yaml:"locate_pointer"`
	ISONextGroup        string `toml:"iso_next_group" yaml:"iso_next_group"`
	MouseButtonModifier string `toml:"mouse_button_modifier" yaml:"mouse_button_modifier"`

	// Disabled turns every keybinding off; key events go to clients.
	Disabled bool `toml:"disabled" yaml:"disabled"`

	Bindings []BindingConfig `toml:"binding" yaml:"binding"`
}

// BindingConfig is one keybinding. A binding with neither Command nor Lua
// must name a builtin action.
type BindingConfig struct {
	Name         string   `toml:"name" yaml:"name"`
	Accelerators []string `toml:"accelerators" yaml:"accelerators"`
	Flags        []string `toml:"flags" yaml:"flags"`

	// Command is an argv run without a shell.
	Command []string `toml:"command" yaml:"command"`

	// Lua is a script run in the plugin sandbox.
	Lua string `toml:"lua" yaml:"lua"`
}

// IsCustom reports whether b defines its own action.
func (b BindingConfig) IsCustom() bool {
	return len(b.Command) > 0 || b.Lua != ""
}

// ParsedFlags returns the binding's flags. Unknown names are ignored;
// Validate reports them.
func (b BindingConfig) ParsedFlags() keymap.Flags {
	f, _ := keymap.ParseFlags(b.Flags)
	return f
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Keybindings: KeybindingsConfig{
			OverlayKey:          "Super_L",
			LocatePointerKey:    "Control_L",
			MouseButtonModifier: "<Alt>",
			Bindings: []BindingConfig{
				{Name: "switch-windows", Accelerators: []string{"<Alt>Tab"}},
				{Name: "switch-to-workspace-left", Accelerators: []string{"<Control><Alt>Left"}},
				{Name: "switch-to-workspace-right", Accelerators: []string{"<Control><Alt>Right"}},
				{Name: "show-desktop", Accelerators: []string{"<Super>d"}},
				{Name: "panel-run-dialog", Accelerators: []string{"<Alt>F2"}},
				{Name: "activate-window-menu", Accelerators: []string{"<Alt>space"}},
				{Name: "toggle-maximized", Accelerators: []string{"<Alt>F10"}},
				{Name: "close", Accelerators: []string{"<Alt>F4"}},
				{Name: "begin-move", Accelerators: []string{"<Alt>F7"}},
				{Name: "begin-resize", Accelerators: []string{"<Alt>F8"}},
			},
		},
	}
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
			add("logging.level", "unknown log level", c.Logging.Level)
		}
	}

	kb := &c.Keybindings
	for _, s := range []struct {
		path  string
		accel string
	}{
		{"keybindings.overlay_key", kb.OverlayKey},
		{"keybindings.locate_pointer_key", kb.LocatePointerKey},
		{"keybindings.mouse_button_modifier", kb.MouseButtonModifier},
	} {
		if _, err := key.Parse(s.accel); err != nil {
			add(s.path, err.Error(), nil)
		}
	}
	if kb.ISONextGroup != "" && keymap.ISONextGroupCombos(kb.ISONextGroup) == nil {
		add("keybindings.iso_next_group", "unknown group switch option", kb.ISONextGroup)
	}

	var names []string
	for i, b := range kb.Bindings {
		path := fmt.Sprintf("keybindings.binding[%d]", i)
		switch {
		case b.Name == "":
			add(path+".name", "name is required", nil)
		case slices.Contains(names, b.Name):
			add(path+".name", "duplicate binding", b.Name)
		}
		names = append(names, b.Name)

		_, builtin := handler.LookupBuiltin(b.Name)
		switch {
		case len(b.Command) > 0 && b.Lua != "":
			add(path, "command and lua are mutually exclusive", nil)
		case b.IsCustom() && builtin:
			add(path+".name", "custom binding shadows a builtin action", b.Name)
		case !b.IsCustom() && !builtin && b.Name != "":
			add(path+".name", "unknown builtin action", b.Name)
		}

		if _, unknown := keymap.ParseFlags(b.Flags); len(unknown) > 0 {
			add(path+".flags", "unknown flags", unknown)
		}
		for j, accel := range b.Accelerators {
			if _, err := key.Parse(accel); err != nil {
				add(fmt.Sprintf("%s.accelerators[%d]", path, j), err.Error(), nil)
			}
		}
	}

	return errors.Join(errs...)
}
