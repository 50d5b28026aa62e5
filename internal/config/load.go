package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// DefaultFile is the configuration file looked up in the working directory
// when no --config flag is given.
const DefaultFile = "configs.json"

// recognizedKeys is the closed set of configs.json keys. Anything else is
// rejected at load time instead of being folded into the search query.
var recognizedKeys = map[string]struct{}{
	"language":         {},
	"stars":            {},
	"fork":             {},
	"created":          {},
	"pushed":           {},
	"size":             {},
	"author":           {},
	"organization":     {},
	"keywords":         {},
	"sort":             {},
	"order":            {},
	"per_page":         {},
	"max_results":      {},
	"min_contributors": {},
	"threads":          {},
	"timeout":          {},
	"output_file":      {},
	"output_format":    {},
	"summary_file":     {},
	"console_format":   {},
	"no_console":       {},
}

// Load reads the configuration file at path and applies it over the defaults.
// When path is empty, ./configs.json is used and its absence is tolerated
// (defaults and CLI flags alone drive the run); an explicitly given path must
// exist. Credentials are never read from the file.
func Load(path string) (*Config, error) {
	cfg := New()

	required := path != ""
	if path == "" {
		path = DefaultFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := applyFile(v, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func applyFile(v *viper.Viper, cfg *Config) error {
	for _, key := range v.AllKeys() {
		if _, ok := recognizedKeys[key]; !ok {
			return fmt.Errorf("unrecognized config key %q", key)
		}
	}

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	setString("language", &cfg.Search.Language)
	setString("stars", &cfg.Search.Stars)
	setString("fork", &cfg.Search.Fork)
	setString("created", &cfg.Search.Created)
	setString("pushed", &cfg.Search.Pushed)
	setString("size", &cfg.Search.Size)
	setString("author", &cfg.Search.User)
	setString("organization", &cfg.Search.Org)
	setString("sort", &cfg.Search.Sort)
	setString("order", &cfg.Search.Order)
	setInt("per_page", &cfg.Search.PerPage)
	setInt("max_results", &cfg.Search.MaxResults)
	if v.IsSet("keywords") {
		cfg.Search.Keywords = v.GetStringSlice("keywords")
	}

	setInt("min_contributors", &cfg.Filter.MinContributors)
	setInt("threads", &cfg.Runtime.Concurrency)
	if v.IsSet("timeout") {
		cfg.Runtime.Timeout = v.GetDuration("timeout")
	}

	setString("output_file", &cfg.Output.Path)
	setString("output_format", &cfg.Output.Format)
	setString("summary_file", &cfg.Output.Summary)
	setString("console_format", &cfg.Output.ConsoleFormat)
	if v.IsSet("no_console") {
		cfg.Output.NoConsole = v.GetBool("no_console")
	}

	return nil
}
