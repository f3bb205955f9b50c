package cleaner

import "sort"

// FieldUpdate is one record's queued normalization. Only the flagged fields
// are touched; each update applies atomically per record.
type FieldUpdate struct {
	ID             int64
	TargetArea     []string
	SetTargetArea  bool
	ClearStartDate bool
	ClearEndDate   bool
}

// Plan is the full output of one pipeline pass. DeleteIDs and Updates are
// disjoint: a record marked for deletion never also carries an update.
type Plan struct {
	DeleteIDs []int64
	Updates   []FieldUpdate

	JunkDetected  int
	ClustersFound int
	SkippedTitles int
}

func (p Plan) Empty() bool {
	return len(p.DeleteIDs) == 0 && len(p.Updates) == 0
}

// Planner turns a record snapshot into a plan using the injected classifier
// and scorer tables.
type Planner struct {
	classifier *Classifier
	scorer     *Scorer
}

func NewPlanner(classifier *Classifier, scorer *Scorer) *Planner {
	return &Planner{
		classifier: classifier,
		scorer:     scorer,
	}
}

func NewDefaultPlanner() *Planner {
	return NewPlanner(NewDefaultClassifier(), NewDefaultScorer())
}

// BuildPlan runs junk classification, duplicate clustering, survivor
// selection and field normalization over the snapshot. Records with empty
// titles are skipped entirely: never classified, never clustered, never
// deleted.
func (p *Planner) BuildPlan(records []Record) Plan {
	plan := Plan{}

	survivors := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Title == "" {
			plan.SkippedTitles++
			continue
		}
		if p.classifier.IsJunk(rec.Title) {
			plan.JunkDetected++
			plan.DeleteIDs = append(plan.DeleteIDs, rec.ID)
			continue
		}
		survivors = append(survivors, rec)
	}

	retained := make([]Record, 0, len(survivors))
	for _, cluster := range BuildClusters(survivors) {
		if len(cluster.Members) == 1 {
			retained = append(retained, cluster.Members[0])
			continue
		}

		plan.ClustersFound++
		keep := p.selectSurvivor(cluster.Members)
		for i, member := range cluster.Members {
			if i == keep {
				retained = append(retained, member)
				continue
			}
			plan.DeleteIDs = append(plan.DeleteIDs, member.ID)
		}
	}

	for _, rec := range retained {
		if update, needed := normalizationUpdate(rec); needed {
			plan.Updates = append(plan.Updates, update)
		}
	}

	return plan
}

// selectSurvivor returns the index of the member to keep: highest score, and
// on ties the member loaded first (members are already in load order, so a
// stable descending sort preserves the tie-break).
func (p *Planner) selectSurvivor(members []Record) int {
	indexes := make([]int, len(members))
	for i := range indexes {
		indexes[i] = i
	}

	scores := make([]int, len(members))
	for i, member := range members {
		scores[i] = p.scorer.Score(member)
	}

	sort.SliceStable(indexes, func(a, b int) bool {
		return scores[indexes[a]] > scores[indexes[b]]
	})
	return indexes[0]
}

// normalizationUpdate runs the independent field checks on one retained
// record: region-name mapping on target areas and strict-date validation on
// both date fields.
func normalizationUpdate(rec Record) (FieldUpdate, bool) {
	update := FieldUpdate{ID: rec.ID}
	needed := false

	if mapped, changed := NormalizeRegions(rec.TargetArea); changed {
		update.TargetArea = mapped
		update.SetTargetArea = true
		needed = true
	}
	if rec.StartDate != nil && !IsStrictDate(*rec.StartDate) {
		update.ClearStartDate = true
		needed = true
	}
	if rec.EndDate != nil && !IsStrictDate(*rec.EndDate) {
		update.ClearEndDate = true
		needed = true
	}

	return update, needed
}
