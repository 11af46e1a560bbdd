package postprocess

import (
	"strings"
	"testing"
)

func TestClean_ThinkingBlock(t *testing.T) {
	in := "<thinking>meter analysis goes here</thinking>\nقِفَا نَبْكِ"
	if got := Clean(in); got != "قِفَا نَبْكِ" {
		t.Errorf("expected the thinking block removed, got %q", got)
	}
}

func TestClean_TruncatedThinkingBlock(t *testing.T) {
	in := "البيت الأول\n<think>cut off mid-thought"
	if got := Clean(in); got != "البيت الأول" {
		t.Errorf("expected the truncated block removed, got %q", got)
	}
}

func TestClean_InstructionEcho(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Here is the corrected verse:\nالبيت", "البيت"},
		{"Here's the corrected bait: البيت", "البيت"},
		{"The corrected verses:\nالبيت", "البيت"},
		{"Sure, here is the poem:\nالبيت", "البيت"},
		{"Certainly! Here is the diacritized text: البيت", "Certainly! Here is the diacritized text: البيت"},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClean_EchoOnlyAtStart(t *testing.T) {
	in := "البيت الأول\nThe corrected verse: shall stay"
	if got := Clean(in); got != in {
		t.Errorf("expected mid-text echo untouched, got %q", got)
	}
}

func TestClean_CodeFence(t *testing.T) {
	in := "```\nالبيت الأول\nالبيت الثاني\n```"
	want := "البيت الأول\nالبيت الثاني"
	if got := Clean(in); got != want {
		t.Errorf("Clean(%q) = %q, want %q", in, got, want)
	}
}

func TestClean_LanguageTaggedFence(t *testing.T) {
	in := "```text\nالبيت\n```"
	if got := Clean(in); got != "البيت" {
		t.Errorf("expected fence stripped, got %q", got)
	}
}

func TestClean_QuoteWrapping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"البيت الأول"`, "البيت الأول"},
		{"«البيت الأول»", "البيت الأول"},
		{"'البيت الأول'", "البيت الأول"},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClean_InternalQuotesKept(t *testing.T) {
	in := `قال "كلمة" ومضى`
	if got := Clean(in); got != in {
		t.Errorf("expected internal quotes untouched, got %q", got)
	}
}

func TestExtractJSON_Plain(t *testing.T) {
	var v struct {
		IsValid bool    `json:"is_valid"`
		Issue   *string `json:"issue"`
	}
	if err := ExtractJSON(`{"is_valid": true, "issue": null}`, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsValid || v.Issue != nil {
		t.Errorf("unexpected verdict: %+v", v)
	}
}

func TestExtractJSON_ChattyResponse(t *testing.T) {
	var v struct {
		IsValid bool   `json:"is_valid"`
		Issue   string `json:"issue"`
	}
	in := "Let me check the rhyme.\n```json\n{\"is_valid\": false, \"issue\": \"ends on د not ر\"}\n```\nHope this helps!"
	if err := ExtractJSON(in, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.IsValid {
		t.Error("expected is_valid=false")
	}
	if !strings.Contains(v.Issue, "ر") {
		t.Errorf("unexpected issue: %q", v.Issue)
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	var v map[string]any
	if err := ExtractJSON("no json here", &v); err == nil {
		t.Error("expected an error when the response holds no JSON object")
	}
}

func TestExtractJSON_MalformedObject(t *testing.T) {
	var v map[string]any
	if err := ExtractJSON("{not json}", &v); err == nil {
		t.Error("expected an error for a malformed object")
	}
}
