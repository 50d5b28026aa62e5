package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/aisepucrio/stnl-ghmetadata/internal/record"
)

// SummarySink writes a Markdown digest of the run on Close: what was
// collected, what was excluded and why, and what failed.
type SummarySink struct {
	path         string
	file         *os.File
	mu           sync.Mutex
	records      []record.Record
	exclusions   []Event
	failures     []Event
	query        string
	discovered   int
	exitCode     int
	haveExitCode bool
}

func NewSummarySink(path string) (*SummarySink, error) {
	if path == "" {
		return nil, fmt.Errorf("summary path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary file: %w", err)
	}

	return &SummarySink{
		path: path,
		file: f,
	}, nil
}

func (s *SummarySink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case record.Record:
		s.records = append(s.records, t)
	case Event:
		switch t.Type {
		case "run.started":
			s.query = t.Query
			s.discovered = t.Repos
		case "repo.excluded":
			s.exclusions = append(s.exclusions, t)
		case "repo.failed":
			s.failures = append(s.failures, t)
		case "run.finished":
			if t.Repos > 0 {
				s.discovered = t.Repos
			}
			s.exitCode = t.ExitCode
			s.haveExitCode = true
		}
	}
	return nil
}

func (s *SummarySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]record.Record, len(s.records))
	copy(records, s.records)
	sort.Slice(records, func(i, j int) bool {
		if records[i].Stars != records[j].Stars {
			return records[i].Stars > records[j].Stars
		}
		return records[i].FullName() < records[j].FullName()
	})

	var b strings.Builder
	b.WriteString("# Repository Metadata Collection Summary\n\n")

	if s.query != "" {
		b.WriteString(fmt.Sprintf("Search query: `%s`\n\n", s.query))
	}
	b.WriteString(fmt.Sprintf("Collected %d of %d repositories (excluded %d, failed %d).\n", len(records), s.discovered, len(s.exclusions), len(s.failures)))
	if s.haveExitCode {
		b.WriteString(fmt.Sprintf("Exit code: %d\n", s.exitCode))
	}
	b.WriteString("\n")

	b.WriteString("## Collected repositories\n\n")
	if len(records) == 0 {
		b.WriteString("- None\n\n")
	} else {
		b.WriteString("| Repository | Stars | Forks | Contributors | Top language |\n")
		b.WriteString("| --- | ---: | ---: | ---: | --- |\n")
		for _, r := range records {
			contributors := fmt.Sprintf("%d", r.Contributors.Count)
			if r.Contributors.Estimated {
				contributors = "~" + contributors
			}
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s |\n", r.FullName(), r.Stars, r.Forks, contributors, topLanguage(r)))
		}
		b.WriteString("\n")
	}

	if langs := aggregateLanguages(records); len(langs) > 0 {
		b.WriteString("## Language distribution\n\n")
		b.WriteString("Share of bytes across all collected repositories.\n\n")
		for _, l := range langs {
			b.WriteString(fmt.Sprintf("- %s: %.2f%%\n", l.Language, l.Percentage))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Exclusions\n\n")
	if len(s.exclusions) == 0 {
		b.WriteString("- None\n\n")
	} else {
		byReason := make(map[string][]string)
		for _, e := range s.exclusions {
			byReason[e.Reason] = append(byReason[e.Reason], e.Repo)
		}
		var reasons []string
		for reason := range byReason {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			repos := byReason[reason]
			sort.Strings(repos)
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", reason, formatRepoList(repos, 5)))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Failures\n\n")
	if len(s.failures) == 0 {
		b.WriteString("- None\n\n")
	} else {
		failures := make([]Event, len(s.failures))
		copy(failures, s.failures)
		sort.Slice(failures, func(i, j int) bool { return failures[i].Repo < failures[j].Repo })
		for _, e := range failures {
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", e.Repo, e.Reason))
		}
		b.WriteString("\n")
	}

	if _, err := s.file.WriteString(b.String()); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}

func topLanguage(r record.Record) string {
	lb, ok := r.LanguagesInfo.(*record.LanguageBreakdown)
	if !ok || lb == nil || len(lb.Languages) == 0 {
		return "-"
	}
	return lb.Languages[0].Language
}

// aggregateLanguages folds the per-repo breakdowns into one fleet-wide
// distribution. Records whose language data is unavailable contribute
// nothing.
func aggregateLanguages(records []record.Record) []record.LanguageUsage {
	totals := make(map[string]int)
	grand := 0
	for _, r := range records {
		lb, ok := r.LanguagesInfo.(*record.LanguageBreakdown)
		if !ok || lb == nil {
			continue
		}
		for _, u := range lb.Languages {
			totals[u.Language] += u.Bytes
			grand += u.Bytes
		}
	}
	if grand == 0 {
		return nil
	}

	out := make([]record.LanguageUsage, 0, len(totals))
	for lang, bytes := range totals {
		out = append(out, record.LanguageUsage{
			Language:   lang,
			Bytes:      bytes,
			Percentage: float64(bytes) / float64(grand) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bytes != out[j].Bytes {
			return out[i].Bytes > out[j].Bytes
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func formatRepoList(repos []string, max int) string {
	if len(repos) <= max {
		return strings.Join(repos, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(repos[:max], ", "), len(repos)-max)
}
