package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Keymap struct {
	Bindings map[string]string `toml:"bindings"`
}

type EditorOptions struct {
	TabWidth        int    `toml:"tab-width"`
	QuitTimes       int    `toml:"quit-times"`
	MessageTimeout  int    `toml:"message-timeout"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
	Debug           bool   `toml:"debug"`
}

type Theme struct {
	Foreground            string `toml:"foreground"`
	Background            string `toml:"background"`
	StatuslineForeground  string `toml:"statusline-foreground"`
	StatuslineBackground  string `toml:"statusline-background"`
	SearchMatchForeground string `toml:"search-foreground"`
	SearchMatchBackground string `toml:"search-background"`
	SyntaxKeyword         string `toml:"syntax-keyword"`
	SyntaxType            string `toml:"syntax-type"`
	SyntaxString          string `toml:"syntax-string"`
	SyntaxComment         string `toml:"syntax-comment"`
	SyntaxNumber          string `toml:"syntax-number"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        8,
			QuitTimes:       3,
			MessageTimeout:  5,
			GitBranchSymbol: "git:",
			Debug:           false,
		},
		Theme: Theme{
			Foreground: "default",
			Background: "default",
			// Statusline colors left empty: reverse video of the main style.
			SearchMatchForeground: "navy",
			SyntaxKeyword:         "olive",
			SyntaxType:            "green",
			SyntaxString:          "purple",
			SyntaxComment:         "teal",
			SyntaxNumber:          "maroon",
		},
		Keymap: Keymap{
			Bindings: map[string]string{
				"left":      "move_left",
				"down":      "move_down",
				"up":        "move_up",
				"right":     "move_right",
				"home":      "line_start",
				"end":       "line_end",
				"pgup":      "page_up",
				"pgdn":      "page_down",
				"enter":     "insert_newline",
				"tab":       "insert_tab",
				"backspace": "delete_backward",
				"del":       "delete_forward",
				"ctrl+s":    "save",
				"ctrl+q":    "quit",
				"ctrl+f":    "find",
				"ctrl+l":    "refresh",
			},
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.QuitTimes > 0 {
		cfg.Editor.QuitTimes = userCfg.Editor.QuitTimes
	}
	if userCfg.Editor.MessageTimeout > 0 {
		cfg.Editor.MessageTimeout = userCfg.Editor.MessageTimeout
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	if userCfg.Editor.Debug {
		cfg.Editor.Debug = userCfg.Editor.Debug
	}
	if userCfg.Theme.Foreground != "" {
		cfg.Theme.Foreground = userCfg.Theme.Foreground
	}
	if userCfg.Theme.Background != "" {
		cfg.Theme.Background = userCfg.Theme.Background
	}
	if userCfg.Theme.StatuslineForeground != "" {
		cfg.Theme.StatuslineForeground = userCfg.Theme.StatuslineForeground
	}
	if userCfg.Theme.StatuslineBackground != "" {
		cfg.Theme.StatuslineBackground = userCfg.Theme.StatuslineBackground
	}
	if userCfg.Theme.SearchMatchForeground != "" {
		cfg.Theme.SearchMatchForeground = userCfg.Theme.SearchMatchForeground
	}
	if userCfg.Theme.SearchMatchBackground != "" {
		cfg.Theme.SearchMatchBackground = userCfg.Theme.SearchMatchBackground
	}
	if userCfg.Theme.SyntaxKeyword != "" {
		cfg.Theme.SyntaxKeyword = userCfg.Theme.SyntaxKeyword
	}
	if userCfg.Theme.SyntaxType != "" {
		cfg.Theme.SyntaxType = userCfg.Theme.SyntaxType
	}
	if userCfg.Theme.SyntaxString != "" {
		cfg.Theme.SyntaxString = userCfg.Theme.SyntaxString
	}
	if userCfg.Theme.SyntaxComment != "" {
		cfg.Theme.SyntaxComment = userCfg.Theme.SyntaxComment
	}
	if userCfg.Theme.SyntaxNumber != "" {
		cfg.Theme.SyntaxNumber = userCfg.Theme.SyntaxNumber
	}
	if userCfg.Keymap.Bindings != nil {
		for k, v := range userCfg.Keymap.Bindings {
			cfg.Keymap.Bindings[k] = v
		}
	}

	return cfg, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("CACTUS_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "cactus"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cactus"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
