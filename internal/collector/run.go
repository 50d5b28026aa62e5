package collector

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/aisepucrio/stnl-ghmetadata/internal/config"
	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	gh "github.com/aisepucrio/stnl-ghmetadata/internal/github"
	"github.com/aisepucrio/stnl-ghmetadata/internal/output"
)

func exitCodeForRun(fatal, partial bool) int {
	// Exit code contract:
	// 0 = run completed, records written
	// 2 = partial (some repositories failed or never settled)
	// 3 = fatal (unusable config, no search results, auth failure); nothing written
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	return 0
}

// setupOutputManager assembles the sinks for one run. A sink whose file
// cannot be created is logged and skipped; the run still completes with the
// remaining sinks.
func setupOutputManager(cfg *config.Config, logger *log.Logger) *output.Manager {
	outMgr := output.NewManager()

	if !cfg.Output.NoConsole {
		_ = outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat))
	}

	fs, err := output.NewFileSink(cfg.Output.Path, cfg.Output.Format)
	if err != nil {
		logger.Error("cannot create output file; records will not be persisted", "path", cfg.Output.Path, "err", err)
	} else {
		_ = outMgr.AddSink(fs)
	}

	if cfg.Output.Summary != "" {
		ss, err := output.NewSummarySink(cfg.Output.Summary)
		if err != nil {
			logger.Error("cannot create summary file", "path", cfg.Output.Summary, "err", err)
		} else {
			_ = outMgr.AddSink(ss)
		}
	}

	return outMgr
}

// Run executes one full collection: discovery, the bounded pool over the
// candidates, and the fan-out of records and lifecycle events to the sinks.
// It returns the process exit code.
//
// Discovery failures and an empty result set end the run before any sink is
// opened, so a fatal run never leaves an empty output file behind.
func Run(ctx context.Context, cfg *config.Config, client *gh.Client) int {
	logger := log.FromContext(ctx)

	budget := fetcher.NewRequestBudget()
	f := fetcher.NewFetcher(client, budget)

	repos, err := Discover(ctx, client, budget, cfg)
	if err != nil {
		logger.Error("repository discovery failed", "err", err)
		return exitCodeForRun(true, false)
	}
	if len(repos) == 0 {
		logger.Error("search returned no repositories", "query", cfg.Query())
		return exitCodeForRun(true, false)
	}
	logger.Info("discovered repositories", "count", len(repos), "query", cfg.Query())

	processor, err := NewProcessor(f, cfg.Filter.MinContributors)
	if err != nil {
		logger.Error("cannot build processor", "err", err)
		return exitCodeForRun(true, false)
	}
	pool, err := NewCollector(processor, cfg.Runtime.Concurrency)
	if err != nil {
		logger.Error("cannot build collector", "err", err)
		return exitCodeForRun(true, false)
	}

	outMgr := setupOutputManager(cfg, logger)
	_ = outMgr.Write(output.Event{Type: "run.started", Repos: len(repos), Query: cfg.Query()})

	outCh, errCh := pool.Collect(ctx, repos)

	var collected, excluded, failed int
	for out := range outCh {
		switch {
		case out.Err != nil:
			failed++
			logger.Error("repository failed", "repo", out.Repo.FullName(), "err", out.Err)
			_ = outMgr.Write(output.Event{
				Type:   "repo.failed",
				Repo:   out.Repo.FullName(),
				Reason: out.Err.Error(),
			})
		case out.Excluded:
			excluded++
			logger.Info("repository excluded", "repo", out.Repo.FullName(), "reason", out.Reason)
			_ = outMgr.Write(output.Event{
				Type:      "repo.excluded",
				Repo:      out.Repo.FullName(),
				Reason:    out.Reason,
				Count:     out.Count,
				Threshold: out.Threshold,
			})
		default:
			collected++
			_ = outMgr.Write(*out.Record)
		}
	}

	var stopErr error
	for err := range errCh {
		if err != nil {
			stopErr = err
		}
	}
	if stopErr != nil {
		logger.Error("collection stopped early", "err", stopErr)
	}

	settled := collected + excluded + failed
	partial := failed > 0 || settled < len(repos)
	code := exitCodeForRun(false, partial)

	_ = outMgr.Write(output.Event{
		Type:      "run.finished",
		Repos:     len(repos),
		Collected: collected,
		Excluded:  excluded,
		Failed:    failed,
		ExitCode:  code,
	})
	if err := outMgr.Close(); err != nil {
		// A failed flush is reported but does not change the exit code.
		logger.Error("output write failed", "err", err)
	}
	return code
}
