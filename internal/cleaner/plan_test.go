package cleaner

import (
	"reflect"
	"testing"
)

func TestBuildPlan_JunkGoesToDelete(t *testing.T) {
	t.Parallel()

	planner := NewDefaultPlanner()
	plan := planner.BuildPlan([]Record{
		{ID: 1, Title: "補助金セミナー開催のお知らせ"},
		{ID: 2, Title: "小規模事業者持続化補助金"},
		{ID: 3, Title: "【千代田区】融資・貸付：創業融資あっせん"},
	})

	if plan.JunkDetected != 2 {
		t.Fatalf("got %d junk, want 2", plan.JunkDetected)
	}
	if !reflect.DeepEqual(plan.DeleteIDs, []int64{1, 3}) {
		t.Fatalf("got delete ids %v, want [1 3]", plan.DeleteIDs)
	}
	if len(plan.Updates) != 0 {
		t.Fatalf("unexpected updates: %v", plan.Updates)
	}
}

func TestBuildPlan_EmptyTitlesSkipped(t *testing.T) {
	t.Parallel()

	planner := NewDefaultPlanner()
	plan := planner.BuildPlan([]Record{
		{ID: 1, Title: ""},
		{ID: 2, Title: "創業支援補助金"},
	})

	if plan.SkippedTitles != 1 {
		t.Fatalf("got %d skipped, want 1", plan.SkippedTitles)
	}
	if len(plan.DeleteIDs) != 0 {
		t.Fatalf("empty-title record must never be deleted: %v", plan.DeleteIDs)
	}
}

func TestBuildPlan_DuplicateSurvivorByScore(t *testing.T) {
	t.Parallel()

	planner := NewDefaultPlanner()
	plan := planner.BuildPlan([]Record{
		{ID: 1, Title: "ものづくり補助金（第17回）"},
		{ID: 2, Title: "ものづくり補助金（第18回）", MaxAmount: int64Ptr(10_000_000)},
	})

	if plan.ClustersFound != 1 {
		t.Fatalf("got %d clusters, want 1", plan.ClustersFound)
	}
	if !reflect.DeepEqual(plan.DeleteIDs, []int64{1}) {
		t.Fatalf("got delete ids %v, want the unscored repost [1]", plan.DeleteIDs)
	}
}

func TestBuildPlan_TieBreakKeepsFirstLoaded(t *testing.T) {
	t.Parallel()

	planner := NewDefaultPlanner()
	plan := planner.BuildPlan([]Record{
		{ID: 7, Title: "事業再構築補助金（第3回）"},
		{ID: 8, Title: "事業再構築補助金（第4回）"},
		{ID: 9, Title: "事業再構築補助金（第5回）"},
	})

	if !reflect.DeepEqual(plan.DeleteIDs, []int64{8, 9}) {
		t.Fatalf("got delete ids %v, want [8 9]", plan.DeleteIDs)
	}
}

func TestBuildPlan_DeletedRecordsCarryNoUpdates(t *testing.T) {
	t.Parallel()

	planner := NewDefaultPlanner()
	plan := planner.BuildPlan([]Record{
		// Loses the cluster and also has a mappable region: the region fix
		// must not surface for a deleted record.
		{ID: 1, Title: "持続化補助金（第1回）", TargetArea: []string{"東京"}},
		{ID: 2, Title: "持続化補助金（第2回）", MaxAmount: int64Ptr(1)},
	})

	if !reflect.DeepEqual(plan.DeleteIDs, []int64{1}) {
		t.Fatalf("got delete ids %v, want [1]", plan.DeleteIDs)
	}
	for _, u := range plan.Updates {
		if u.ID == 1 {
			t.Fatalf("deleted record carries an update: %+v", u)
		}
	}
}

func TestBuildPlan_NormalizationUpdates(t *testing.T) {
	t.Parallel()

	planner := NewDefaultPlanner()
	plan := planner.BuildPlan([]Record{
		{
			ID:         1,
			Title:      "創業支援補助金",
			TargetArea: []string{"東京", "埼玉"},
			StartDate:  strPtr("令和7年4月"),
			EndDate:    strPtr("2025-12-26"),
		},
	})

	if len(plan.Updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(plan.Updates))
	}
	u := plan.Updates[0]
	if u.ID != 1 || !u.SetTargetArea {
		t.Fatalf("unexpected update: %+v", u)
	}
	if !reflect.DeepEqual(u.TargetArea, []string{"東京都", "埼玉県"}) {
		t.Fatalf("got target area %v, want [東京都 埼玉県]", u.TargetArea)
	}
	if !u.ClearStartDate {
		t.Fatalf("malformed start date must be cleared")
	}
	if u.ClearEndDate {
		t.Fatalf("well-formed end date must be kept")
	}
}

func TestBuildPlan_CleanSnapshotIsEmpty(t *testing.T) {
	t.Parallel()

	planner := NewDefaultPlanner()
	plan := planner.BuildPlan([]Record{
		{ID: 1, Title: "小規模事業者持続化補助金", TargetArea: []string{"東京都"}, StartDate: strPtr("2025-04-01")},
		{ID: 2, Title: "省エネルギー投資促進支援事業", TargetArea: []string{"全国"}},
	})

	if !plan.Empty() {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
}

func TestBuildPlan_DeleteAndUpdateDisjoint(t *testing.T) {
	t.Parallel()

	planner := NewDefaultPlanner()
	plan := planner.BuildPlan([]Record{
		{ID: 1, Title: "ものづくり補助金（第17回）", TargetArea: []string{"大阪"}},
		{ID: 2, Title: "ものづくり補助金（第18回）", TargetArea: []string{"大阪"}, MaxAmount: int64Ptr(1)},
		{ID: 3, Title: "補助金・助成金一覧"},
		{ID: 4, Title: "雇用関係助成金", StartDate: strPtr("随時")},
	})

	deleted := make(map[int64]bool, len(plan.DeleteIDs))
	for _, id := range plan.DeleteIDs {
		deleted[id] = true
	}
	for _, u := range plan.Updates {
		if deleted[u.ID] {
			t.Fatalf("record %d both deleted and updated", u.ID)
		}
	}
	if !deleted[1] || !deleted[3] {
		t.Fatalf("got delete ids %v, want 1 and 3 present", plan.DeleteIDs)
	}
	if len(plan.Updates) != 2 {
		t.Fatalf("got %d updates, want 2 (survivor region fix, date clear): %+v", len(plan.Updates), plan.Updates)
	}
}
