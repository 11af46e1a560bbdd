// Package prompt renders the named instruction templates sent to the
// oracle. The Library is an explicit object constructed by the caller and
// passed into validators and refiners; there is no global template state.
package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// Template names known to the built-in library.
const (
	GeneratePoem = "generate_poem"
	ExtendPoem   = "extend_poem"
	ProsodyFix   = "prosody_fix"
	RhymeCheck   = "rhyme_check"
	RhymeFix     = "rhyme_fix"
	Rediacritize = "rediacritize"
)

// Values is the named-value mapping a template is rendered with.
type Values map[string]any

var builtin = map[string]string{
	GeneratePoem: `You are a classical Arabic poet. Compose a poem with exactly {{.bait_count}} baits (verse-pairs, {{.verse_count}} hemistichs) in the {{.meter}} meter.
Every bait must end with the rhyme letter "{{.rhyme_letter}}" carrying the mark "{{.rhyme_vocalization}}" ({{.rhyme_family}}: {{.rhyme_description}}), as in "{{.rhyme_example}}".
{{if .theme}}Theme: {{.theme}}.{{end}} {{if .tone}}Tone: {{.tone}}.{{end}} {{if .register}}Register: {{.register}}.{{end}}
Fully diacritize every letter. Output ONLY the verses, one hemistich per line, no numbering and no commentary.`,

	ExtendPoem: `You are a classical Arabic poet. The following poem in the {{.meter}} meter needs {{.missing}} additional bait(s) (verse-pairs) in the same meter, rhyme and voice:

{{.poem}}

Every new bait must end with the rhyme letter "{{.rhyme_letter}}" carrying the mark "{{.rhyme_vocalization}}", as in "{{.rhyme_example}}".
Fully diacritize every letter. Output ONLY the {{.missing}} new bait(s), one hemistich per line ({{.new_lines}} lines total), no numbering and no commentary.`,

	ProsodyFix: `You are an expert in Arabic prosody (arud). The following bait breaks the {{.meter}} meter:

{{.bait}}

Problem: {{.issue}}

Rewrite the bait so it scans correctly in the {{.meter}} meter while keeping its meaning and rhyme. Fully diacritize every letter.
Output ONLY the corrected bait as exactly two lines, first hemistich then second hemistich, no commentary.`,

	RhymeCheck: `You are an expert in Arabic rhyme (qafiya). Check whether this bait's ending satisfies the rhyme specification.

Bait:
{{.bait}}

Required rhyme: letter "{{.rhyme_letter}}" carrying the mark "{{.rhyme_vocalization}}", family {{.rhyme_family}} ({{.rhyme_description}}), as in "{{.rhyme_example}}".

Respond ONLY in JSON:
{"is_valid": true|false, "issue": "short explanation or null"}`,

	RhymeFix: `You are a classical Arabic poet. In the poem below, one bait breaks the rhyme.

Full poem for context:
{{.poem}}

Broken bait:
{{.bait}}

Problem: {{.issue}}

Required rhyme: letter "{{.rhyme_letter}}" carrying the mark "{{.rhyme_vocalization}}", as in "{{.rhyme_example}}".

Rewrite only the broken bait so it carries the required rhyme, fits the poem's meter and meaning, and is fully diacritized.
Output ONLY the corrected bait as exactly two lines, first hemistich then second hemistich, no commentary.`,

	Rediacritize: `You are an expert in Arabic diacritization (tashkeel). Fully diacritize the following verses: every consonant must carry a vowel mark, a sukun, or a shadda. Do not change any word.

{{.poem}}

Output ONLY the diacritized verses, one per line, in the same order, no commentary.`,
}

// Library holds the parsed instruction templates.
type Library struct {
	templates map[string]*template.Template
}

// NewLibrary parses the built-in templates. It panics only on a malformed
// built-in, which is a programming error.
func NewLibrary() *Library {
	l := &Library{templates: make(map[string]*template.Template)}
	for name, text := range builtin {
		l.templates[name] = template.Must(template.New(name).Option("missingkey=zero").Parse(text))
	}
	return l
}

// Render produces the instruction for the named template and values.
func (l *Library) Render(name string, values Values) (string, error) {
	tmpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, map[string]any(values)); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", name, err)
	}
	return b.String(), nil
}
