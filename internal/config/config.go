// Package config loads the CLI and server settings.
//
// Values come from three layers, later ones winning: built-in defaults, a
// YAML file, and TURING_* environment variables. The merged tree is decoded
// with mapstructure and checked with validator struct tags.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. TURING_STORE_KIND.
const EnvPrefix = "TURING_"

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "turing.yaml"

// Config is the full settings tree.
type Config struct {
	Log             LogConfig    `mapstructure:"log" yaml:"log"`
	Limits          LimitsConfig `mapstructure:"limits" yaml:"limits"`
	HaltOrder       string       `mapstructure:"halt_order" yaml:"halt_order" validate:"oneof=decision move"`
	CheckpointEvery int          `mapstructure:"checkpoint_every" yaml:"checkpoint_every" validate:"gte=1"`
	Bench           BenchConfig  `mapstructure:"bench" yaml:"bench"`
	Store           StoreConfig  `mapstructure:"store" yaml:"store"`
	Server          ServerConfig `mapstructure:"server" yaml:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	// File also receives every record as JSON when set.
	File string `mapstructure:"file" yaml:"file"`
}

// LimitsConfig holds the default budgets for runs that set none. Zero means unbounded.
type LimitsConfig struct {
	Time  int `mapstructure:"time" yaml:"time" validate:"gte=0"`
	Space int `mapstructure:"space" yaml:"space" validate:"gte=0"`
}

type BenchConfig struct {
	Machine string `mapstructure:"machine" yaml:"machine" validate:"required"`
	Pad     string `mapstructure:"pad" yaml:"pad"`
	Suffix  string `mapstructure:"suffix" yaml:"suffix"`
	Start   int    `mapstructure:"start" yaml:"start" validate:"gte=0"`
	Stop    int    `mapstructure:"stop" yaml:"stop" validate:"gtfield=Start"`
	Step    int    `mapstructure:"step" yaml:"step" validate:"gte=1"`
}

type StoreConfig struct {
	Kind   string       `mapstructure:"kind" yaml:"kind" validate:"oneof=memory file redis badger"`
	Dir    string       `mapstructure:"dir" yaml:"dir" validate:"required_if=Kind file"`
	Redis  RedisConfig  `mapstructure:"redis" yaml:"redis"`
	Badger BadgerConfig `mapstructure:"badger" yaml:"badger"`
	// EncryptionKey seals snapshots at rest when set: 32 bytes, hex or base64.
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key"`
	// PreviousKey still opens snapshots sealed before a key rotation.
	PreviousKey string `mapstructure:"previous_key" yaml:"previous_key" validate:"excluded_without=EncryptionKey"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db" validate:"gte=0,lte=15"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix" validate:"required"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
}

type BadgerConfig struct {
	Path       string        `mapstructure:"path" yaml:"path" validate:"required"`
	SyncWrites bool          `mapstructure:"sync_writes" yaml:"sync_writes"`
	TTL        time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr" validate:"required"`
	MaxTime     int    `mapstructure:"max_time" yaml:"max_time" validate:"gte=0"`
	MaxSpace    int    `mapstructure:"max_space" yaml:"max_space" validate:"gte=0"`
	MetricsPath string `mapstructure:"metrics_path" yaml:"metrics_path" validate:"startswith=/"`
	// RateLimit caps run requests per second. Zero disables throttling.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" yaml:"rate_burst" validate:"gte=1"`
}

// defaults is the base layer. Every key listed here can be overridden from
// the environment.
func defaults() map[string]any {
	return map[string]any{
		"log": map[string]any{
			"level":  "info",
			"format": "text",
			"file":   "",
		},
		"limits": map[string]any{
			"time":  0,
			"space": 0,
		},
		"halt_order":       "decision",
		"checkpoint_every": 4096,
		"bench": map[string]any{
			"machine": "last-symbol",
			"pad":     "1",
			"suffix":  "0",
			"start":   0,
			"stop":    100000,
			"step":    1000,
		},
		"store": map[string]any{
			"kind": "memory",
			"dir":  ".turing/runs",
			"redis": map[string]any{
				"addr":     "localhost:6379",
				"password": "",
				"db":       0,
				"prefix":   "turing:run:",
				"ttl":      "0s",
			},
			"badger": map[string]any{
				"path":        ".turing/badger",
				"sync_writes": true,
				"ttl":         "0s",
			},
			"encryption_key": "",
			"previous_key":   "",
		},
		"server": map[string]any{
			"addr":         ":8080",
			"max_time":     1000000,
			"max_space":    1000000,
			"metrics_path": "/metrics",
			"rate_limit":   0,
			"rate_burst":   10,
		},
	}
}

var validate = validator.New()

// Load reads path (if it exists), applies environment overrides and validates.
// An empty path tries DefaultFile; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with a custom environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	tree := defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		merge(tree, file)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	for _, key := range keys(defaults(), "") {
		name := EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if v, ok := lookup(name); ok {
			set(tree, key, v)
		}
	}

	return decode(tree)
}

// Default returns the validated defaults.
func Default() *Config {
	cfg, err := decode(defaults())
	if err != nil {
		panic("config: invalid defaults: " + err.Error())
	}
	return cfg
}

func decode(tree map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(tree); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags. Backend sections only matter for their own store kind.
func (c *Config) Validate() error {
	if err := validate.StructExcept(c, c.skipped()...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) skipped() []string {
	var out []string
	if c.Store.Kind != "redis" {
		out = append(out, "Store.Redis")
	}
	if c.Store.Kind != "badger" {
		out = append(out, "Store.Badger")
	}
	return out
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if into, ok := dst[k].(map[string]any); ok {
				merge(into, sub)
				continue
			}
		}
		dst[k] = v
	}
}

// keys lists the dotted paths of every leaf in tree, sorted.
func keys(tree map[string]any, prefix string) []string {
	var out []string
	for k, v := range tree {
		path := prefix + k
		if sub, ok := v.(map[string]any); ok {
			out = append(out, keys(sub, path+".")...)
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// set stores v at a dotted path, creating intermediate maps.
func set(tree map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		sub, ok := tree[p].(map[string]any)
		if !ok {
			sub = make(map[string]any)
			tree[p] = sub
		}
		tree = sub
	}
	tree[parts[len(parts)-1]] = v
}
