package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"remindr/internal/reminder"
	"remindr/internal/tasks"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todos.db"
	DefaultEndpoint       = "http://localhost:8080/api"
	DefaultServerAddr     = ":8080"
	envConfigPath         = "REMINDR_CONFIG"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Refresh string `toml:"refresh"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Edit    string `toml:"edit"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	View    string `toml:"view"`
	Search  string `toml:"search"`
	Filter  string `toml:"filter"`
	Sort    string `toml:"sort"`
	Theme   string `toml:"theme"`
	Detail  string `toml:"detail"`
}

type Server struct {
	Addr     string `toml:"addr"`
	DBPath   string `toml:"db_path"`
	BasePath string `toml:"base_path"`
}

type Config struct {
	Endpoint      string `toml:"endpoint"`
	DefaultView   string `toml:"default_view"`
	DefaultFilter string `toml:"default_filter"`
	DefaultSort   string `toml:"default_sort"`
	Theme         string `toml:"theme"`
	Notifications string `toml:"notifications"`
	SeedSample    bool   `toml:"seed_sample"`
	LogPath       string `toml:"log_path"`
	Server        Server `toml:"server"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath prefers $REMINDR_CONFIG, then the user config dir,
// then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "remindr", DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads path, writing the defaults there first if it does not exist.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the UI could not act on.
func (c Config) Validate() error {
	if _, err := tasks.ParseView(c.DefaultView); err != nil {
		return err
	}
	if _, err := tasks.ParseStatus(c.DefaultFilter); err != nil {
		return err
	}
	if _, err := tasks.ParseSort(c.DefaultSort); err != nil {
		return err
	}
	if _, err := reminder.ParsePermission(c.Notifications); err != nil {
		return err
	}
	if c.Theme != "light" && c.Theme != "dark" {
		return fmt.Errorf("unknown theme %q (want light|dark)", c.Theme)
	}
	return nil
}

func (c Config) Query() tasks.Query {
	v, _ := tasks.ParseView(c.DefaultView)
	st, _ := tasks.ParseStatus(c.DefaultFilter)
	so, _ := tasks.ParseSort(c.DefaultSort)
	return tasks.Query{View: v, Status: st, Sort: so}
}

// fillDefaults covers keys missing from older config files.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Endpoint == "" {
		c.Endpoint = def.Endpoint
	}
	if c.DefaultView == "" {
		c.DefaultView = def.DefaultView
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = def.DefaultFilter
	}
	if c.DefaultSort == "" {
		c.DefaultSort = def.DefaultSort
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.Notifications == "" {
		c.Notifications = def.Notifications
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = def.Server.DBPath
	}
	if c.Server.BasePath == "" {
		c.Server.BasePath = def.Server.BasePath
	}
	fillKey(&c.Keys.Quit, def.Keys.Quit)
	fillKey(&c.Keys.Add, def.Keys.Add)
	fillKey(&c.Keys.Refresh, def.Keys.Refresh)
	fillKey(&c.Keys.Up, def.Keys.Up)
	fillKey(&c.Keys.Down, def.Keys.Down)
	fillKey(&c.Keys.Toggle, def.Keys.Toggle)
	fillKey(&c.Keys.Delete, def.Keys.Delete)
	fillKey(&c.Keys.Edit, def.Keys.Edit)
	fillKey(&c.Keys.Confirm, def.Keys.Confirm)
	fillKey(&c.Keys.Cancel, def.Keys.Cancel)
	fillKey(&c.Keys.View, def.Keys.View)
	fillKey(&c.Keys.Search, def.Keys.Search)
	fillKey(&c.Keys.Filter, def.Keys.Filter)
	fillKey(&c.Keys.Sort, def.Keys.Sort)
	fillKey(&c.Keys.Theme, def.Keys.Theme)
	fillKey(&c.Keys.Detail, def.Keys.Detail)
}

func fillKey(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		Endpoint:      DefaultEndpoint,
		DefaultView:   string(tasks.ViewInbox),
		DefaultFilter: string(tasks.StatusAll),
		DefaultSort:   string(tasks.SortDueAsc),
		Theme:         "light",
		Notifications: string(reminder.PermissionDefault),
		SeedSample:    true,
		Server: Server{
			Addr:     DefaultServerAddr,
			DBPath:   DefaultDBName,
			BasePath: "/api",
		},
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Refresh: "r",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Edit:    "e",
			Confirm: "enter",
			Cancel:  "esc",
			View:    "tab",
			Search:  "/",
			Filter:  "f",
			Sort:    "s",
			Theme:   "t",
			Detail:  "i",
		},
	}
}
