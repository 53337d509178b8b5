package model

import (
	"strings"
	"testing"
)

func TestCredibilityFor_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Credibility
	}{
		{0, CredibilityLikelyFake},
		{39, CredibilityLikelyFake},
		{40, CredibilityQuestionable},
		{69, CredibilityQuestionable},
		{70, CredibilityCredible},
		{100, CredibilityCredible},
	}

	for _, tt := range tests {
		if got := CredibilityFor(tt.score); got != tt.want {
			t.Errorf("CredibilityFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestCredibilityFor_AllScores(t *testing.T) {
	for s := 0; s <= 100; s++ {
		got := CredibilityFor(s)
		if (got == CredibilityLikelyFake) != (s < 40) {
			t.Errorf("score %d: Likely Fake iff s<40, got %q", s, got)
		}
		if (got == CredibilityQuestionable) != (s >= 40 && s < 70) {
			t.Errorf("score %d: Questionable iff 40<=s<70, got %q", s, got)
		}
		if (got == CredibilityCredible) != (s >= 70) {
			t.Errorf("score %d: Credible iff s>=70, got %q", s, got)
		}
	}
}

func TestBandFor_MatchesCredibility(t *testing.T) {
	want := map[Credibility]Band{
		CredibilityLikelyFake:   BandLow,
		CredibilityQuestionable: BandMedium,
		CredibilityCredible:     BandHigh,
	}
	for s := 0; s <= 100; s++ {
		if got := BandFor(float64(s)); got != want[CredibilityFor(s)] {
			t.Errorf("score %d: band %q does not match label %q", s, got, CredibilityFor(s))
		}
	}
	if BandFor(69.9) != BandMedium {
		t.Error("expected 69.9 to be medium")
	}
}

func TestSummarizeContent(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := SummarizeContent(long)
	if len(got) != 103 {
		t.Fatalf("expected 103 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[95:])
	}

	exact := strings.Repeat("b", 100)
	if SummarizeContent(exact) != exact {
		t.Error("100-char content must not be truncated")
	}

	if SummarizeContent("hello") != "hello" {
		t.Error("short content must be unchanged")
	}
}

func TestSummarizeContent_Multibyte(t *testing.T) {
	got := SummarizeContent(strings.Repeat("é", 120))
	if n := len([]rune(got)); n != 103 {
		t.Errorf("expected 103 runes, got %d", n)
	}
}

func TestLookupCulturalContext(t *testing.T) {
	ctx := LookupCulturalContext("fr-FR")
	if ctx.Name != "French (France)" || ctx.Region != "Europe" {
		t.Errorf("unexpected context: %+v", ctx)
	}

	unknown := LookupCulturalContext("xx-XX")
	if unknown.Name != "Unknown" || unknown.Region != "Unknown Region" {
		t.Errorf("expected placeholder, got %+v", unknown)
	}
	if unknown.Code != "xx-XX" {
		t.Errorf("placeholder should keep the code, got %q", unknown.Code)
	}
}

func TestCulturalContexts_ReturnsCopy(t *testing.T) {
	list := CulturalContexts()
	list[0].Name = "mutated"
	if LookupCulturalContext("en-US").Name != "US English" {
		t.Error("mutating the returned slice must not affect the table")
	}
}

func TestParseContentType(t *testing.T) {
	for _, ct := range ContentTypes {
		got, err := ParseContentType(string(ct))
		if err != nil || got != ct {
			t.Errorf("ParseContentType(%q) = %q, %v", ct, got, err)
		}
	}
	if _, err := ParseContentType("pdf"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestBreakdown_SetClamps(t *testing.T) {
	var b Breakdown
	b.Set(CategoryText, -4)
	b.Set(CategoryCultural, 107.5)
	if b.Get(CategoryText) != 0 {
		t.Errorf("expected 0, got %v", b.Text)
	}
	if b.Get(CategoryCultural) != 100 {
		t.Errorf("expected 100, got %v", b.Cultural)
	}
}

func TestContentType_Title(t *testing.T) {
	if ContentCombined.Title() != "Combined" {
		t.Errorf("got %q", ContentCombined.Title())
	}
}
