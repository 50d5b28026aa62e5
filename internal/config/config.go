package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep these in
	// sync:
	// - CLI flags in internal/cli/collect.go
	// - recognized configs.json keys in internal/config/load.go
	Search  Search
	Filter  Filter
	Output  Output
	Runtime Runtime
}

type Search struct {
	// Language restricts the search to repositories written mainly in this
	// language (search qualifier language:).
	Language string

	// Stars is a star-count expression such as ">=500", "100..200" (stars:).
	Stars string

	// Fork controls how forks are searched: "" (omit), "true", "false", "only".
	Fork string

	// Created is a creation-date expression such as ">=2023-01-01" (created:).
	Created string

	// Pushed is a last-push-date expression (pushed:).
	Pushed string

	// Size is a repository-size expression in KB (size:).
	Size string

	// User limits the search to repositories owned by this user (user:).
	// The configs.json key is "author".
	User string

	// Org limits the search to repositories owned by this organization (org:).
	// The configs.json key is "organization".
	Org string

	// Keywords are free-text terms prepended to the query.
	Keywords []string

	// Sort is the search ordering: stars, forks, help-wanted-issues, updated,
	// or best-match (empty means best-match).
	Sort string

	// Order is asc or desc.
	Order string

	// PerPage is the search page size (1..100).
	PerPage int

	// MaxResults caps how many repositories the search yields. The search API
	// itself never returns more than 1000.
	MaxResults int
}

type Filter struct {
	// MinContributors excludes repositories whose contributor count is below
	// this bound. 0 disables the comparison (repositories with an unavailable
	// count are still excluded).
	MinContributors int
}

type Output struct {
	// Path is where the collected records are written.
	Path string

	// Format selects the file format: json (aggregate array) or ndjson
	// (one record per line). Empty means inferred from the Path extension.
	Format string

	// Summary writes a Markdown run summary to this path when set.
	Summary string

	// ConsoleFormat controls the console sink: text, json, ndjson.
	ConsoleFormat string

	// NoConsole suppresses the console sink.
	NoConsole bool
}

type Runtime struct {
	// Token is the GitHub access token. Never read from configs.json; it comes
	// from --token, GITHUB_TOKEN, or the gh CLI.
	Token string

	// Concurrency is the worker count for repository processing. 0 means
	// derive from host parallelism (half the CPUs, minimum 1).
	Concurrency int

	// Timeout is the global deadline for the run.
	Timeout time.Duration

	// Verbose enables debug logging and per-request HTTP diagnostics.
	Verbose bool
}

// DefaultConcurrency is the worker-pool size used when none is configured:
// half the host's parallel execution units, but at least one worker.
func DefaultConcurrency() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

func New() *Config {
	return &Config{
		Search: Search{
			Sort:       "stars",
			Order:      "desc",
			PerPage:    10,
			MaxResults: 10,
		},
		Filter: Filter{
			MinContributors: 1,
		},
		Output: Output{
			Path:          "output.json",
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Timeout: 30 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	c.Search.Keywords = splitCommaList(c.Search.Keywords)

	// Search validation
	c.Search.Sort = normalizeEnumValue(c.Search.Sort)
	switch c.Search.Sort {
	case "", "stars", "forks", "help-wanted-issues", "updated", "best-match":
	default:
		return fmt.Errorf("unsupported sort: %s (must be one of: stars, forks, help-wanted-issues, updated, best-match)", c.Search.Sort)
	}

	c.Search.Order = normalizeEnumValue(c.Search.Order)
	if c.Search.Order == "" {
		c.Search.Order = "desc"
	}
	if c.Search.Order != "asc" && c.Search.Order != "desc" {
		return fmt.Errorf("unsupported order: %s (must be one of: asc, desc)", c.Search.Order)
	}

	c.Search.Fork = normalizeEnumValue(c.Search.Fork)
	switch c.Search.Fork {
	case "", "true", "false", "only":
	default:
		return fmt.Errorf("unsupported fork policy: %s (must be one of: true, false, only)", c.Search.Fork)
	}

	if c.Search.PerPage <= 0 {
		return errors.New("per-page must be >= 1")
	}
	if c.Search.PerPage > 100 {
		return errors.New("per-page must be <= 100 (search API page limit)")
	}
	if c.Search.MaxResults <= 0 {
		return errors.New("max-results must be >= 1")
	}

	// Filter validation
	if c.Filter.MinContributors < 0 {
		return errors.New("min-contributors must be >= 0")
	}

	// Runtime validation
	if c.Runtime.Concurrency == 0 {
		c.Runtime.Concurrency = DefaultConcurrency()
	}
	if c.Runtime.Concurrency < 0 {
		return errors.New("concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported console format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	if c.Output.Path == "" {
		return errors.New("output path required")
	}
	c.Output.Format = normalizeEnumValue(c.Output.Format)
	if c.Output.Format == "" {
		ext := strings.ToLower(filepath.Ext(c.Output.Path))
		switch ext {
		case ".json":
			c.Output.Format = "json"
		case ".ndjson", ".jsonl":
			c.Output.Format = "ndjson"
		default:
			if ext == "" {
				return errors.New("cannot infer output format from file extension (missing extension); set the output format explicitly")
			}
			return fmt.Errorf("cannot infer output format from file extension %q; set the output format explicitly", ext)
		}
	} else if c.Output.Format != "json" && c.Output.Format != "ndjson" {
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}

	return nil
}

// QueryTerms renders the configured search filters as search qualifiers, in a
// fixed order. Only the closed set of fields above ever reaches the query;
// arbitrary key/value folding is deliberately not supported.
func (c *Config) QueryTerms() []string {
	var terms []string
	terms = append(terms, c.Search.Keywords...)
	if c.Search.Language != "" {
		terms = append(terms, "language:"+c.Search.Language)
	}
	if c.Search.Stars != "" {
		terms = append(terms, "stars:"+c.Search.Stars)
	}
	switch c.Search.Fork {
	case "true", "false":
		terms = append(terms, "fork:"+c.Search.Fork)
	case "only":
		terms = append(terms, "fork:only")
	}
	if c.Search.Created != "" {
		terms = append(terms, "created:"+c.Search.Created)
	}
	if c.Search.Pushed != "" {
		terms = append(terms, "pushed:"+c.Search.Pushed)
	}
	if c.Search.Size != "" {
		terms = append(terms, "size:"+c.Search.Size)
	}
	if c.Search.User != "" {
		terms = append(terms, "user:"+c.Search.User)
	}
	if c.Search.Org != "" {
		terms = append(terms, "org:"+c.Search.Org)
	}
	return terms
}

// Query assembles the search query string. Empty means there is nothing to
// search for and the run must end before any output is produced.
func (c *Config) Query() string {
	return strings.Join(c.QueryTerms(), " ")
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
