package namer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// defaultStopWords is the built-in German-oriented stop-list: common
// determiners, conjunctions, and generic podcast terms that would
// otherwise dominate the word-frequency heuristic.
func defaultStopWords() map[string]struct{} {
	words := []string{
		"der", "die", "das", "den", "dem", "des", "ein", "eine", "einer", "eines", "einem", "einen",
		"und", "oder", "aber", "doch", "auch", "noch", "nur", "schon", "sehr", "mehr", "sein", "ihr",
		"ist", "sind", "war", "waren", "wird", "werden", "wurde", "wurden", "hat", "haben", "hatte",
		"wie", "was", "wer", "wen", "wem", "wo", "wann", "warum", "weil", "wenn", "dann", "also",
		"wir", "ich", "du", "sie", "es", "man", "uns", "euch", "mich", "dich", "sich",
		"nicht", "kein", "keine", "mit", "für", "von", "vom", "zu", "zum", "zur", "im", "in",
		"am", "an", "auf", "aus", "bei", "nach", "seit", "über", "unter", "durch", "gegen", "ohne",
		"bis", "um", "als", "so", "mal", "ganz", "immer", "heute", "mehrere",
		"folge", "folgen", "podcast", "episode", "episoden", "thema", "themen", "teil",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var wordPattern = regexp.MustCompile(`[\p{L}]+`)

// isGermanLetter accepts ASCII letters plus ä/ö/ü/ß in either case.
func isGermanLetter(r rune) bool {
	switch r {
	case 'ä', 'ö', 'ü', 'ß', 'Ä', 'Ö', 'Ü':
		return true
	}
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// tokenize splits s into case-folded word tokens of length > 2, skipping
// any listed in stopWords.
func tokenize(s string, stopWords map[string]struct{}) []string {
	var out []string
	for _, match := range wordPattern.FindAllString(s, -1) {
		ok := true
		for _, r := range match {
			if !isGermanLetter(r) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		word := strings.ToLower(match)
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, skip := stopWords[word]; skip {
			continue
		}
		out = append(out, word)
	}
	return out
}

// countEntry tracks a candidate's accumulated weight and first-seen
// insertion order, used to break ties deterministically.
type countEntry struct {
	key   string
	count float64
	order int
}

// Heuristic builds the deterministic fallback name for a cluster from its
// members' topic text and keywords, per the word/keyword frequency tables
// described in the specification.
func Heuristic(members []Member, stopWords map[string]struct{}) string {
	topicWords := make(map[string]*countEntry)
	var topicOrder []string
	keywordCounts := make(map[string]*countEntry)
	var keywordOrder []string

	addCount := func(table map[string]*countEntry, order *[]string, key string, weight float64) {
		e, ok := table[key]
		if !ok {
			e = &countEntry{key: key, order: len(*order)}
			table[key] = e
			*order = append(*order, key)
		}
		e.count += weight
	}

	for _, m := range members {
		for _, w := range tokenize(m.Topic, stopWords) {
			addCount(topicWords, &topicOrder, w, m.Weight)
		}
		for _, kw := range m.Keywords {
			folded := strings.ToLower(strings.TrimSpace(kw))
			if folded == "" {
				continue
			}
			addCount(keywordCounts, &keywordOrder, folded, m.Weight)
		}
	}

	combined := make(map[string]*countEntry, len(topicWords)+len(keywordCounts))
	var order []string
	for _, k := range topicOrder {
		e := topicWords[k]
		combined[k] = &countEntry{key: k, count: e.count, order: e.order}
		order = append(order, k)
	}
	for _, k := range keywordOrder {
		e := keywordCounts[k]
		if existing, ok := combined[k]; ok {
			existing.count += e.count * 2
			continue
		}
		combined[k] = &countEntry{key: k, count: e.count * 2, order: len(order)}
		order = append(order, k)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return combined[order[i]].count > combined[order[j]].count
	})

	limit := 3
	if len(order) < limit {
		limit = len(order)
	}
	candidates := order[:limit]

	if len(candidates) == 0 {
		return Sonstige
	}

	first := capitalize(candidates[0])
	if len(candidates) == 1 {
		return first
	}

	firstCount := combined[candidates[0]].count
	secondCount := combined[candidates[1]].count
	if firstCount > 2*secondCount {
		return first
	}
	return first + " & " + capitalize(candidates[1])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9äöüß]+`)

// Slug derives a cluster id from its name: lowercased, every run of
// non-alphanumeric characters (German letters counted as alphanumeric)
// collapsed to a single hyphen, with leading/trailing hyphens trimmed.
func Slug(name string) string {
	lower := strings.ToLower(name)
	replaced := slugNonAlnum.ReplaceAllString(lower, "-")
	return strings.Trim(replaced, "-")
}
