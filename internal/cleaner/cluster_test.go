package cleaner

import (
	"fmt"
	"testing"
)

func recordsWithTitles(titles ...string) []Record {
	records := make([]Record, len(titles))
	for i, title := range titles {
		records[i] = Record{ID: int64(i + 1), Title: title}
	}
	return records
}

func clusterTitles(c Cluster) []string {
	titles := make([]string, len(c.Members))
	for i, m := range c.Members {
		titles[i] = m.Title
	}
	return titles
}

func TestBuildClusters_GroupsReposts(t *testing.T) {
	t.Parallel()

	records := recordsWithTitles(
		"ものづくり補助金（第17回）",
		"創業支援事業助成金",
		"ものづくり補助金（第18回）",
	)
	clusters := BuildClusters(records)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2: %v", len(clusters), clusters)
	}

	first := clusters[0]
	if len(first.Members) != 2 {
		t.Fatalf("got %d members in first cluster, want 2: %v", len(first.Members), clusterTitles(first))
	}
	if first.Anchor().ID != 1 || first.Members[1].ID != 3 {
		t.Fatalf("unexpected membership: %v", clusterTitles(first))
	}
	if len(clusters[1].Members) != 1 || clusters[1].Anchor().ID != 2 {
		t.Fatalf("unexpected singleton cluster: %v", clusterTitles(clusters[1]))
	}
}

func TestBuildClusters_ExactThresholdIsNotAMatch(t *testing.T) {
	t.Parallel()

	// "abcd" vs "abcde" share 3 of 4 bigrams: similarity exactly 0.75.
	clusters := BuildClusters(recordsWithTitles("abcd", "abcde"))
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2 at the exact threshold", len(clusters))
	}
}

func TestBuildClusters_StarNotTransitive(t *testing.T) {
	t.Parallel()

	// sim(A,B) = 5/6, sim(A,C) = 5/7, sim(B,C) = 6/7. C clears the threshold
	// against B but not against the anchor A, so it starts its own cluster
	// rather than chaining in.
	clusters := BuildClusters(recordsWithTitles("abcdef", "abcdefg", "abcdefgh"))
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2: %v", len(clusters), clusters)
	}
	if got := clusterTitles(clusters[0]); len(got) != 2 || got[0] != "abcdef" || got[1] != "abcdefg" {
		t.Fatalf("unexpected first cluster: %v", got)
	}
	if got := clusterTitles(clusters[1]); len(got) != 1 || got[0] != "abcdefgh" {
		t.Fatalf("unexpected second cluster: %v", got)
	}
}

func TestBuildClusters_ClaimedMembersNeverAnchor(t *testing.T) {
	t.Parallel()

	records := recordsWithTitles(
		"持続化補助金（第10回）",
		"持続化補助金（第11回）",
		"持続化補助金（第12回）",
	)
	clusters := BuildClusters(records)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if len(clusters[0].Members) != 3 {
		t.Fatalf("got %d members, want 3", len(clusters[0].Members))
	}
}

func TestBuildClusters_PartitionsInput(t *testing.T) {
	t.Parallel()

	records := recordsWithTitles(
		"雇用調整助成金",
		"事業再構築補助金（第1回）",
		"雇用調整助成金のコース",
		"事業再構築補助金（第2回）",
		"xyzzy",
	)
	clusters := BuildClusters(records)

	seen := make(map[int64]int)
	total := 0
	for _, c := range clusters {
		for _, m := range c.Members {
			seen[m.ID]++
			total++
		}
	}
	if total != len(records) {
		t.Fatalf("clusters cover %d records, want %d", total, len(records))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("record %d appears in %d clusters", id, n)
		}
	}
}

func TestBuildClusters_Empty(t *testing.T) {
	t.Parallel()

	if clusters := BuildClusters(nil); len(clusters) != 0 {
		t.Fatalf("got %d clusters for empty input", len(clusters))
	}
}

func TestBuildClusters_LargeInputParallelScan(t *testing.T) {
	t.Parallel()

	// Enough records to push the inner scan onto multiple goroutines. Every
	// odd record is a repost of the anchor family, every even one unique.
	var records []Record
	for i := 0; i < 600; i++ {
		var title string
		if i%2 == 0 {
			title = fmt.Sprintf("unique-program-%d-entry", i)
		} else {
			title = fmt.Sprintf("小規模事業者持続化補助金（第%d回）", i)
		}
		records = append(records, Record{ID: int64(i + 1), Title: title})
	}

	clusters := BuildClusters(records)

	var repostCluster *Cluster
	for i := range clusters {
		if NormalizeTitle(clusters[i].Anchor().Title) == NormalizeTitle("小規模事業者持続化補助金") {
			repostCluster = &clusters[i]
			break
		}
	}
	if repostCluster == nil {
		t.Fatalf("repost cluster not found")
	}
	if len(repostCluster.Members) != 300 {
		t.Fatalf("got %d repost members, want 300", len(repostCluster.Members))
	}
	for i := 1; i < len(repostCluster.Members); i++ {
		if repostCluster.Members[i].ID <= repostCluster.Members[i-1].ID {
			t.Fatalf("members out of load order at %d", i)
		}
	}
}
