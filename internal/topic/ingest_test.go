package topic

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
}

func TestIngest_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Ingest(dir)
	if err == nil {
		t.Fatal("expected NoInputs error for empty directory")
	}
}

func TestIngest_TwoIdenticalTopics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1-topics.json", `{
		"episodeNumber": 1,
		"title": "Episode One",
		"topics": [
			{"topic": "X"},
			{"topic": "x"}
		]
	}`)

	topics, warnings, err := Ingest(dir)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if len(topics) != 1 {
		t.Fatalf("expected 1 unique topic, got %d", len(topics))
	}

	got := topics[0]
	if got.Topic != "X" {
		t.Errorf("expected first-seen casing %q, got %q", "X", got.Topic)
	}
	if got.Count != 2 {
		t.Errorf("expected count 2, got %d", got.Count)
	}
	if len(got.Episodes) != 1 || got.Episodes[0] != 1 {
		t.Errorf("expected episodes=[1], got %v", got.Episodes)
	}
	if len(got.Occurrences) != 2 {
		t.Errorf("expected 2 occurrences, got %d", len(got.Occurrences))
	}
}

func TestIngest_EpisodesSubsetOfCount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1-topics.json", `{"episodeNumber": 1, "topics": [{"topic": "Go"}, {"topic": "go"}]}`)
	writeFile(t, dir, "2-topics.json", `{"episodeNumber": 2, "topics": [{"topic": "GO"}]}`)

	topics, _, err := Ingest(dir)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(topics) != 1 {
		t.Fatalf("expected 1 unique topic, got %d", len(topics))
	}

	got := topics[0]
	if got.Count != 3 {
		t.Errorf("expected count 3, got %d", got.Count)
	}
	if len(got.Episodes) != 2 {
		t.Errorf("expected 2 distinct episodes, got %d", len(got.Episodes))
	}
	if len(got.Episodes) > got.Count {
		t.Errorf("invariant violated: |episodes| (%d) > count (%d)", len(got.Episodes), got.Count)
	}
}

func TestIngest_MalformedFileSkippedAsWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1-topics.json", `{"episodeNumber": 1, "topics": [{"topic": "Keep"}]}`)
	writeFile(t, dir, "2-topics.json", `not json at all`)

	topics, warnings, err := Ingest(dir)
	if err != nil {
		t.Fatalf("Ingest should not abort on a malformed file: %v", err)
	}
	if len(topics) != 1 {
		t.Fatalf("expected the well-formed file's topic to survive, got %d topics", len(topics))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning for the malformed file, got %d", len(warnings))
	}
}

func TestIngest_FirstAppearanceOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1-topics.json", `{"episodeNumber": 1, "topics": [{"topic": "Beta"}, {"topic": "Alpha"}]}`)
	writeFile(t, dir, "2-topics.json", `{"episodeNumber": 2, "topics": [{"topic": "Gamma"}, {"topic": "alpha"}]}`)

	topics, _, err := Ingest(dir)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	want := []string{"Beta", "Alpha", "Gamma"}
	if len(topics) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(topics))
	}
	for i, w := range want {
		if topics[i].Topic != w {
			t.Errorf("topics[%d] = %q, want %q", i, topics[i].Topic, w)
		}
	}
}

func TestIngest_ExtendedSidecarFillsTiming(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1-topics.json", `{"episodeNumber": 1, "topics": [{"topic": "Rust"}]}`)
	writeFile(t, dir, "1-extended-topics.json", `{"Rust": {"summaryMeta": {"startSec": 100, "endSec": 160}}}`)

	topics, _, err := Ingest(dir)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	occ := topics[0].Occurrences[0]
	if occ.PositionSec == nil || *occ.PositionSec != 100 {
		t.Errorf("expected positionSec fallback 100, got %v", occ.PositionSec)
	}
	if occ.DurationSec == nil || *occ.DurationSec != 60 {
		t.Errorf("expected durationSec fallback 60, got %v", occ.DurationSec)
	}
}

func TestIngest_IdempotentOnSameContent(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	content := `{"episodeNumber": 7, "topics": [{"topic": "Idempotence"}, {"topic": "idempotence"}]}`
	writeFile(t, dir1, "7-topics.json", content)
	writeFile(t, dir2, "7-topics.json", content)

	a, _, err := Ingest(dir1)
	if err != nil {
		t.Fatalf("Ingest dir1 failed: %v", err)
	}
	b, _, err := Ingest(dir2)
	if err != nil {
		t.Fatalf("Ingest dir2 failed: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("expected identical unique-topic set sizes, got %d and %d", len(a), len(b))
	}
	if a[0].Topic != b[0].Topic || a[0].Count != b[0].Count {
		t.Errorf("expected identical topic aggregation, got %+v and %+v", a[0], b[0])
	}
}
