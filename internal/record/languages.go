package record

import (
	"math"
	"sort"
)

// breakdownNote is carried verbatim inside every language breakdown so the
// output file is self-describing.
const breakdownNote = "The 'bytes' field represents the total number of bytes of code written in this language, and 'percentage' shows its proportion relative to the total."

// LanguageUsage is one entry of a LanguageBreakdown.
type LanguageUsage struct {
	Language   string  `json:"language"`
	Bytes      int     `json:"bytes"`
	Percentage float64 `json:"percentage"`
}

// LanguageBreakdown summarizes the language byte map of one repository.
// Entries are sorted by bytes descending (name ascending on ties) and the
// percentages are rounded to two decimals.
type LanguageBreakdown struct {
	TotalBytes  int             `json:"total_bytes"`
	Languages   []LanguageUsage `json:"languages"`
	Description string          `json:"description"`
}

// FormatLanguages turns the raw byte-per-language map into a breakdown.
// An empty map (or one whose bytes sum to zero) yields nil rather than a
// breakdown with a zero divisor.
func FormatLanguages(languages map[string]int) *LanguageBreakdown {
	total := 0
	for _, bytes := range languages {
		total += bytes
	}
	if total == 0 {
		return nil
	}

	usages := make([]LanguageUsage, 0, len(languages))
	for lang, bytes := range languages {
		usages = append(usages, LanguageUsage{
			Language:   lang,
			Bytes:      bytes,
			Percentage: math.Round(float64(bytes)/float64(total)*100*100) / 100,
		})
	}
	sort.Slice(usages, func(i, j int) bool {
		if usages[i].Bytes != usages[j].Bytes {
			return usages[i].Bytes > usages[j].Bytes
		}
		return usages[i].Language < usages[j].Language
	})

	return &LanguageBreakdown{
		TotalBytes:  total,
		Languages:   usages,
		Description: breakdownNote,
	}
}
