package embedstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/castmap/topictaxonomy/internal/topic"
)

// subjectPair is a coarse/fine pair ranked by how often it occurs.
type subjectPair struct {
	coarse, fine string
	count        int
}

// EmbeddingText serializes a topic into the short record sent to the
// embedding provider: "Topic: <topic>", optionally "Subject: ..." for the
// top up to 3 coarse/fine pairs by occurrence frequency, optionally
// "Keywords: ..." for up to 12 keywords. This serialization is part of the
// artifact's observable contract and must stay stable.
func EmbeddingText(t *topic.Topic) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Topic: %s", t.Topic))

	if subjects := topSubjects(t, 3); len(subjects) > 0 {
		parts := make([]string, len(subjects))
		for i, s := range subjects {
			parts[i] = formatSubject(s)
		}
		lines = append(lines, fmt.Sprintf("Subject: %s", strings.Join(parts, ", ")))
	}

	if keywords := topKeywords(t, 12); len(keywords) > 0 {
		lines = append(lines, fmt.Sprintf("Keywords: %s", strings.Join(keywords, ", ")))
	}

	return strings.Join(lines, "\n")
}

func formatSubject(s subjectPair) string {
	switch {
	case s.coarse != "" && s.fine != "":
		return fmt.Sprintf("%s/%s", s.coarse, s.fine)
	case s.coarse != "":
		return s.coarse
	default:
		return s.fine
	}
}

func topSubjects(t *topic.Topic, limit int) []subjectPair {
	counts := make(map[string]*subjectPair)
	var order []string

	for _, occ := range t.Occurrences {
		if occ.Subject == nil || (occ.Subject.Coarse == "" && occ.Subject.Fine == "") {
			continue
		}
		key := occ.Subject.Coarse + "\x00" + occ.Subject.Fine
		if existing, ok := counts[key]; ok {
			existing.count++
			continue
		}
		counts[key] = &subjectPair{coarse: occ.Subject.Coarse, fine: occ.Subject.Fine, count: 1}
		order = append(order, key)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]].count > counts[order[j]].count
	})

	if len(order) > limit {
		order = order[:limit]
	}

	out := make([]subjectPair, len(order))
	for i, key := range order {
		out[i] = *counts[key]
	}
	return out
}

func topKeywords(t *topic.Topic, limit int) []string {
	if len(t.Keywords) <= limit {
		return t.Keywords
	}
	return t.Keywords[:limit]
}
