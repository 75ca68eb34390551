package namer

import "testing"

func TestHeuristic_SingleTopicUsesTopicWord(t *testing.T) {
	members := []Member{{Topic: "Raumfahrt", Weight: 1}}
	got := Heuristic(members, defaultStopWords())
	if got != "Raumfahrt" {
		t.Errorf("Heuristic = %q, want %q", got, "Raumfahrt")
	}
}

func TestHeuristic_EmptyMembersYieldsSonstige(t *testing.T) {
	got := Heuristic(nil, defaultStopWords())
	if got != Sonstige {
		t.Errorf("Heuristic = %q, want %q", got, Sonstige)
	}
}

func TestHeuristic_DominantWordSuppressesSecondCandidate(t *testing.T) {
	members := []Member{
		{Topic: "Raumfahrt und Raketen", Weight: 10},
		{Topic: "Raumfahrt Geschichte", Weight: 10},
		{Topic: "Raumfahrt Mission", Weight: 1},
	}
	got := Heuristic(members, defaultStopWords())
	if got != "Raumfahrt" {
		t.Errorf("Heuristic = %q, want dominant candidate alone", got)
	}
}

func TestHeuristic_CloseCandidatesCombinedWithAmpersand(t *testing.T) {
	members := []Member{
		{Topic: "Klima", Weight: 1},
		{Topic: "Energie", Weight: 1},
	}
	got := Heuristic(members, defaultStopWords())
	if got != "Klima & Energie" {
		t.Errorf("Heuristic = %q, want %q", got, "Klima & Energie")
	}
}

func TestHeuristic_KeywordsWeightedDouble(t *testing.T) {
	members := []Member{
		{Topic: "Podcast Folge Energie", Keywords: []string{"Wirtschaft"}, Weight: 1},
	}
	got := Heuristic(members, defaultStopWords())
	if got != "Wirtschaft & Energie" {
		t.Errorf("Heuristic = %q, want the doubled keyword ranked ahead of the topic word", got)
	}
}

func TestSlug_CollapsesAndTrimsSeparators(t *testing.T) {
	cases := map[string]string{
		"iPad & Mac":       "ipad-mac",
		"  Raumfahrt!! ":   "raumfahrt",
		"Klima -- Energie": "klima-energie",
		"Müll & Ökologie":  "müll-ökologie",
	}
	for name, want := range cases {
		if got := Slug(name); got != want {
			t.Errorf("Slug(%q) = %q, want %q", name, got, want)
		}
	}
}
