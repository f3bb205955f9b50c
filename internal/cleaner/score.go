package cleaner

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SourcePriority assigns a fixed rank to a record's external-id provenance.
// Rules are checked in order and exactly one priority applies.
type SourcePriority struct {
	Name    string
	Matches func(externalID string) bool
	Points  int
}

// FieldBonuses are the per-field population bonuses. Each contributes
// independently when its field is present.
type FieldBonuses struct {
	MaxAmount   int
	SubsidyRate int
	StartDate   int
	EndDate     int
	CatchPhrase int
	Industry    int
	FrontURL    int
	TargetArea  int
}

// DescriptionTier awards Points when the description has at least MinRunes
// characters. Tiers are checked in order; the first match applies.
type DescriptionTier struct {
	MinRunes int
	Points   int
}

type ScoreConfig struct {
	SourcePriorities      []SourcePriority
	DefaultSourcePriority int
	FieldBonuses          FieldBonuses
	DescriptionTiers      []DescriptionTier
}

var registryCodePattern = regexp.MustCompile(`^[0-9A-Za-z]+$`)

// DefaultScoreConfig ranks curated sample data above the J-Net21 aggregator,
// which ranks above bare jGrants registry codes. Absolute values only matter
// relative to one another within a cluster.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		SourcePriorities: []SourcePriority{
			{
				Name:   "sample",
				Points: 40,
				Matches: func(externalID string) bool {
					return strings.HasPrefix(externalID, "sample:")
				},
			},
			{
				Name:   "jnet21",
				Points: 30,
				Matches: func(externalID string) bool {
					return strings.HasPrefix(externalID, "jnet21:")
				},
			},
			{
				Name:   "jgrants",
				Points: 20,
				Matches: func(externalID string) bool {
					return externalID != "" && registryCodePattern.MatchString(externalID)
				},
			},
		},
		DefaultSourcePriority: 10,
		FieldBonuses: FieldBonuses{
			MaxAmount:   10,
			SubsidyRate: 10,
			StartDate:   5,
			EndDate:     5,
			CatchPhrase: 5,
			Industry:    5,
			FrontURL:    5,
			TargetArea:  5,
		},
		DescriptionTiers: []DescriptionTier{
			{MinRunes: 500, Points: 30},
			{MinRunes: 100, Points: 20},
			{MinRunes: 1, Points: 10},
		},
	}
}

// Scorer computes a record's completeness score. The score only ranks records
// within a cluster; its magnitude has no external meaning.
type Scorer struct {
	cfg ScoreConfig
}

func NewScorer(cfg ScoreConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultScoreConfig())
}

func (s *Scorer) Score(rec Record) int {
	if s == nil {
		return 0
	}

	score := s.sourcePriority(rec.ExternalID)

	bonuses := s.cfg.FieldBonuses
	if rec.MaxAmount != nil {
		score += bonuses.MaxAmount
	}
	if rec.SubsidyRate != nil && strings.TrimSpace(*rec.SubsidyRate) != "" {
		score += bonuses.SubsidyRate
	}
	if rec.StartDate != nil && strings.TrimSpace(*rec.StartDate) != "" {
		score += bonuses.StartDate
	}
	if rec.EndDate != nil && strings.TrimSpace(*rec.EndDate) != "" {
		score += bonuses.EndDate
	}
	if rec.CatchPhrase != nil && strings.TrimSpace(*rec.CatchPhrase) != "" {
		score += bonuses.CatchPhrase
	}
	if len(rec.Industry) > 0 {
		score += bonuses.Industry
	}
	if rec.FrontURL != nil && strings.TrimSpace(*rec.FrontURL) != "" {
		score += bonuses.FrontURL
	}
	if len(rec.TargetArea) > 0 {
		score += bonuses.TargetArea
	}

	score += s.descriptionPoints(rec.Description)
	return score
}

func (s *Scorer) sourcePriority(externalID string) int {
	for _, rule := range s.cfg.SourcePriorities {
		if rule.Matches(externalID) {
			return rule.Points
		}
	}
	return s.cfg.DefaultSourcePriority
}

func (s *Scorer) descriptionPoints(description string) int {
	length := utf8.RuneCountInString(description)
	if length == 0 {
		return 0
	}
	for _, tier := range s.cfg.DescriptionTiers {
		if length >= tier.MinRunes {
			return tier.Points
		}
	}
	return 0
}
