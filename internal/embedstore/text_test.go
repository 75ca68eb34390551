package embedstore

import (
	"strings"
	"testing"

	"github.com/castmap/topictaxonomy/internal/topic"
)

func TestEmbeddingText_TopicOnly(t *testing.T) {
	tp := &topic.Topic{Topic: "Kubernetes"}
	got := EmbeddingText(tp)
	if got != "Topic: Kubernetes" {
		t.Errorf("got %q", got)
	}
}

func TestEmbeddingText_WithKeywordsAndSubject(t *testing.T) {
	tp := &topic.Topic{
		Topic:    "Kubernetes",
		Keywords: []string{"containers", "orchestration"},
		Occurrences: []topic.Occurrence{
			{EpisodeNumber: 1, Subject: &topic.Subject{Coarse: "Tech", Fine: "Infra"}},
			{EpisodeNumber: 2, Subject: &topic.Subject{Coarse: "Tech", Fine: "Infra"}},
			{EpisodeNumber: 3, Subject: &topic.Subject{Coarse: "Tech", Fine: "Cloud"}},
		},
	}
	got := EmbeddingText(tp)

	if !strings.Contains(got, "Topic: Kubernetes") {
		t.Errorf("missing Topic line: %q", got)
	}
	if !strings.Contains(got, "Subject: Tech/Infra, Tech/Cloud") {
		t.Errorf("expected subjects ranked by frequency, got %q", got)
	}
	if !strings.Contains(got, "Keywords: containers, orchestration") {
		t.Errorf("missing Keywords line: %q", got)
	}
}

func TestEmbeddingText_KeywordsTruncatedAtTwelve(t *testing.T) {
	keywords := make([]string, 20)
	for i := range keywords {
		keywords[i] = string(rune('a' + i))
	}
	tp := &topic.Topic{Topic: "Many", Keywords: keywords}
	got := EmbeddingText(tp)

	line := ""
	for _, l := range strings.Split(got, "\n") {
		if strings.HasPrefix(l, "Keywords: ") {
			line = l
		}
	}
	count := len(strings.Split(strings.TrimPrefix(line, "Keywords: "), ", "))
	if count != 12 {
		t.Errorf("expected 12 keywords, got %d", count)
	}
}
