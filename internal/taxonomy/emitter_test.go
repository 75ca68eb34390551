package taxonomy

import "testing"

func TestEmit_OrdersByDescendingEpisodeCountThenID(t *testing.T) {
	clusters := []ClusterInput{
		{ID: "b-cluster", Episodes: []int{1, 2}},
		{ID: "a-cluster", Episodes: []int{1, 2}},
		{ID: "c-cluster", Episodes: []int{1, 2, 3}},
	}
	tax := Emit(clusters, Meta{})

	want := []string{"c-cluster", "a-cluster", "b-cluster"}
	for i, w := range want {
		if tax.Clusters[i].ID != w {
			t.Errorf("position %d: id = %q, want %q", i, tax.Clusters[i].ID, w)
		}
	}
}

func TestEmit_StatisticsCountOutliers(t *testing.T) {
	clusters := []ClusterInput{
		{ID: "a", Episodes: []int{1}, IsOutlier: true},
		{ID: "b", Episodes: []int{1}, IsOutlier: false},
		{ID: "c", Episodes: []int{1}, IsOutlier: true},
		{ID: "d", Episodes: []int{1}, IsOutlier: false},
	}
	tax := Emit(clusters, Meta{})

	if tax.Statistics.ClusterCount != 4 {
		t.Errorf("ClusterCount = %d, want 4", tax.Statistics.ClusterCount)
	}
	if tax.Statistics.OutlierCount != 2 {
		t.Errorf("OutlierCount = %d, want 2", tax.Statistics.OutlierCount)
	}
	if tax.Statistics.OutlierPercentage != 50 {
		t.Errorf("OutlierPercentage = %v, want 50", tax.Statistics.OutlierPercentage)
	}
}

func TestEmit_SampleTopicsTruncatedToFive(t *testing.T) {
	clusters := []ClusterInput{
		{ID: "a", Episodes: []int{1}, SampleTopics: []string{"1", "2", "3", "4", "5", "6", "7"}},
	}
	tax := Emit(clusters, Meta{})

	if len(tax.Clusters[0].SampleTopics) != 5 {
		t.Errorf("len(SampleTopics) = %d, want 5", len(tax.Clusters[0].SampleTopics))
	}
}

func TestEmit_DescriptionFormat(t *testing.T) {
	clusters := []ClusterInput{
		{ID: "a", Episodes: []int{1, 2, 3}, TopicCount: 7},
	}
	tax := Emit(clusters, Meta{})

	want := "7 Topics in 3 Episoden"
	if tax.Clusters[0].Description != want {
		t.Errorf("Description = %q, want %q", tax.Clusters[0].Description, want)
	}
}
