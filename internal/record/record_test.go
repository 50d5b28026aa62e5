package record

import (
	"encoding/json"
	"strings"
	"testing"
)

// Downstream consumers branch on field values, not field presence: placeholder
// fields must serialize as strings and successful counters as numbers.
func TestRecord_PlaceholderAndValueSerialization(t *testing.T) {
	rec := Record{
		Name:          "widget",
		Owner:         "acme",
		URL:           "https://github.com/acme/widget",
		DefaultBranch: "main",
		Stars:         42,
		Commits:       120,
		Pulls:         PullsUnavailable,
		LabelsCount:   9,
		Contributors:  ContributorCount{Count: 605, Estimated: true},
		LanguagesInfo: LanguagesUnavailable,
		Description:   DescriptionUnavailable,
		Readme:        "# widget\n",
		Keywords:      []string{"cli"},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	for _, want := range []string{
		`"commits":120`,
		`"pulls":"` + PullsUnavailable + `"`,
		`"labels_count":9`,
		`"contributors":{"count":605,"estimated":true}`,
		`"languages_info":"` + LanguagesUnavailable + `"`,
		`"description":"` + DescriptionUnavailable + `"`,
		`"keywords":["cli"]`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected serialized record to contain %s, got:\n%s", want, s)
		}
	}
}

// A repository with no language bytes carries null, distinct from the fetch
// failure placeholder.
func TestRecord_NilBreakdownSerializesAsNull(t *testing.T) {
	rec := Record{Name: "empty", Owner: "acme", LanguagesInfo: FormatLanguages(nil)}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"languages_info":null`) {
		t.Fatalf("expected null languages_info, got:\n%s", data)
	}
}

func TestRecord_FullName(t *testing.T) {
	rec := &Record{Owner: "acme", Name: "widget"}
	if got := rec.FullName(); got != "acme/widget" {
		t.Fatalf("FullName() = %q", got)
	}
	var nilRec *Record
	if got := nilRec.FullName(); got != "" {
		t.Fatalf("nil FullName() = %q", got)
	}
}
