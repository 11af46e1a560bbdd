// Package meter provides the bahr → stress-pattern lookup used by prosody
// validation. Patterns are binary strings over the written-form scansion
// alphabet (1 = mutaharrik, 0 = sakin); a bait is metrically valid when
// its scanned pattern is a member of the meter's pattern set.
package meter

import (
	"sort"
	"strings"
)

// Source is the lookup contract the prosody validator depends on. The
// second return value is false for an unknown meter key.
type Source interface {
	Patterns(key string) (map[string]bool, bool)
}

// tafail maps each classical foot to its written-form stress pattern.
var tafail = map[string]string{
	"faulun":     "11010",   // فعولن
	"failun":     "10110",   // فاعلن
	"mafailun":   "1101010", // مفاعيلن
	"mafalun":    "110110",  // مفاعلن (maqbud مفاعيلن)
	"failatun":   "1011010", // فاعلاتن
	"mustafilun": "1010110", // مستفعلن
	"mutafailun": "1110110", // متفاعلن
	"mufaalatun": "1101110", // مفاعلتن
	"faal":       "1100",    // فعول (hemistich-final qabd)
	"fail":       "1010",    // فاعل
}

// meterDef lists the foot sequences of one hemistich: the canonical form
// first, then the accepted zihafat variants.
type meterDef struct {
	aliases []string
	forms   [][]string
}

// meters is the classical bahr table. Each pattern set holds every
// combination of the listed hemistich forms across a bait's two halves.
var meters = map[string]meterDef{
	"tawil": {
		aliases: []string{"الطويل", "taweel"},
		forms: [][]string{
			{"faulun", "mafailun", "faulun", "mafailun"},
			{"faulun", "mafailun", "faulun", "mafalun"},
		},
	},
	"basit": {
		aliases: []string{"البسيط", "baseet"},
		forms: [][]string{
			{"mustafilun", "failun", "mustafilun", "failun"},
			{"mustafilun", "failun", "mustafilun", "fail"},
		},
	},
	"kamil": {
		aliases: []string{"الكامل", "kaamil"},
		forms: [][]string{
			{"mutafailun", "mutafailun", "mutafailun"},
			{"mutafailun", "mutafailun", "mustafilun"},
		},
	},
	"wafir": {
		aliases: []string{"الوافر", "waafir"},
		forms: [][]string{
			{"mufaalatun", "mufaalatun", "faulun"},
		},
	},
	"rajaz": {
		aliases: []string{"الرجز"},
		forms: [][]string{
			{"mustafilun", "mustafilun", "mustafilun"},
		},
	},
	"ramal": {
		aliases: []string{"الرمل"},
		forms: [][]string{
			{"failatun", "failatun", "failatun"},
			{"failatun", "failatun", "failun"},
		},
	},
	"khafif": {
		aliases: []string{"الخفيف", "khafeef"},
		forms: [][]string{
			{"failatun", "mustafilun", "failatun"},
		},
	},
	"mutaqarib": {
		aliases: []string{"المتقارب", "mutaqaarib"},
		forms: [][]string{
			{"faulun", "faulun", "faulun", "faulun"},
			{"faulun", "faulun", "faulun", "faal"},
		},
	},
}

// Table is the built-in classical meter table.
type Table struct {
	patterns map[string]map[string]bool
	names    []string
	aliases  map[string]string
}

// NewTable expands the foot sequences into per-bait pattern sets.
func NewTable() *Table {
	t := &Table{
		patterns: make(map[string]map[string]bool),
		aliases:  make(map[string]string),
	}
	for name, def := range meters {
		set := make(map[string]bool)
		for _, first := range def.forms {
			for _, second := range def.forms {
				set[hemistichPattern(first)+hemistichPattern(second)] = true
			}
		}
		t.patterns[name] = set
		t.names = append(t.names, name)
		t.aliases[name] = name
		for _, a := range def.aliases {
			t.aliases[normalizeKey(a)] = name
		}
	}
	sort.Strings(t.names)
	return t
}

func hemistichPattern(feet []string) string {
	var b strings.Builder
	for _, f := range feet {
		b.WriteString(tafail[f])
	}
	return b.String()
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(strings.ToLower(key))
	return strings.TrimPrefix(key, "bahr ")
}

// Patterns returns the pattern set for key, resolving aliases and Arabic
// names. The second return value is false for unknown meters.
func (t *Table) Patterns(key string) (map[string]bool, bool) {
	name, ok := t.aliases[normalizeKey(key)]
	if !ok {
		return nil, false
	}
	return t.patterns[name], true
}

// Names returns the canonical meter names in sorted order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}
