package topic

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/castmap/topictaxonomy/internal/errs"
)

// Warning is a non-fatal condition surfaced during ingest (a malformed
// record that was skipped). The driver prints these to the diagnostic
// stream without affecting the exit code.
type Warning struct {
	File    string
	Message string
}

// Ingest walks dir for per-episode topic records named "<N>-topics.json",
// consulting an optional "<N>-extended-topics.json" sidecar for fallback
// timing, and returns the deduplicated, first-appearance-ordered list of
// unique topics.
func Ingest(dir string) ([]*Topic, []Warning, error) {
	files, err := episodeFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, errs.New(errs.NoInputs, dir)
	}

	var warnings []Warning
	byKey := make(map[string]*Topic)
	var ordered []*Topic

	for _, ef := range files {
		record, err := readEpisodeRecord(ef.path)
		if err != nil {
			warnings = append(warnings, Warning{File: ef.path, Message: err.Error()})
			continue
		}

		extended := readExtendedRecord(extendedSidecarPath(ef.path))

		for _, entry := range record.Topics {
			canon := canonicalize(entry.Topic)
			if canon == "" {
				warnings = append(warnings, Warning{File: ef.path, Message: "entry with empty topic string"})
				continue
			}

			t, ok := byKey[canon]
			if !ok {
				t = newTopic(entry.Topic)
				byKey[canon] = t
				ordered = append(ordered, t)
			}

			t.Count++
			t.addKeywords(entry.Keywords)
			t.addEpisode(record.EpisodeNumber)

			occ := Occurrence{
				EpisodeNumber: record.EpisodeNumber,
				Subject:       entry.Subject,
				PositionSec:   entry.PositionSec,
				DurationSec:   entry.DurationSec,
			}
			fillTiming(&occ, canon, extended)
			t.Occurrences = append(t.Occurrences, occ)
		}
	}

	return ordered, warnings, nil
}

func fillTiming(occ *Occurrence, canonTopic string, extended ExtendedRecord) {
	if occ.PositionSec == nil && extended != nil {
		for key, entry := range extended {
			if canonicalize(key) != canonTopic {
				continue
			}
			if entry.SummaryMeta.StartSec != nil {
				occ.PositionSec = entry.SummaryMeta.StartSec
			}
			if occ.DurationSec == nil && entry.SummaryMeta.StartSec != nil && entry.SummaryMeta.EndSec != nil {
				d := *entry.SummaryMeta.EndSec - *entry.SummaryMeta.StartSec
				occ.DurationSec = &d
			}
			break
		}
	}
	if occ.DurationSec == nil && occ.PositionSec != nil {
		// no end available without the sidecar; leave unset.
		return
	}
}

// canonicalize folds case and trims whitespace to decide topic identity.
func canonicalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type episodeFile struct {
	number int
	path   string
}

// episodeFiles enumerates "<N>-topics.json" files under dir, sorted
// ascending by episode number for deterministic ingest order.
func episodeFiles(dir string) ([]episodeFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading episode directory %s: %w", dir, err)
	}

	var files []episodeFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, "-topics.json") || strings.HasSuffix(name, "-extended-topics.json") {
			continue
		}
		prefix := strings.TrimSuffix(name, "-topics.json")
		n, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		files = append(files, episodeFile{number: n, path: filepath.Join(dir, name)})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })
	return files, nil
}

func extendedSidecarPath(topicsPath string) string {
	dir := filepath.Dir(topicsPath)
	base := strings.TrimSuffix(filepath.Base(topicsPath), "-topics.json")
	return filepath.Join(dir, base+"-extended-topics.json")
}

func readEpisodeRecord(path string) (*EpisodeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var record EpisodeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &record, nil
}

func readExtendedRecord(path string) ExtendedRecord {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var record ExtendedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil
	}
	return record
}
