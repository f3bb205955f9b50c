package cleaner

import (
	"regexp"
	"strings"
)

// Rule is one junk pattern. Rules are evaluated in order and the first match
// wins, so a rule's position in its list is part of the taxonomy.
type Rule struct {
	Category string
	Matches  func(title string) bool
}

func containsAny(substrings ...string) func(string) bool {
	return func(title string) bool {
		for _, sub := range substrings {
			if strings.Contains(title, sub) {
				return true
			}
		}
		return false
	}
}

func matchesPattern(pattern *regexp.Regexp) func(string) bool {
	return func(title string) bool {
		return pattern.MatchString(title)
	}
}

var (
	// J-Net21 titles follow a 【location】category：name convention.
	bracketConventionPattern = regexp.MustCompile(`^【[^】]+】[^：]*：`)

	// Date brackets like 【令和7年度…】 are not the location convention and
	// fall through to the generic rules only.
	dateBracketPattern = regexp.MustCompile(`^【(令和|平成)\d+年`)
)

// DefaultGenericRules is the junk taxonomy applied to any title.
func DefaultGenericRules() []Rule {
	return []Rule{
		{Category: "navigation", Matches: containsAny("トップページ", "サイトマップ", "ホームページ", "お問い合わせ")},
		{Category: "announcement", Matches: containsAny("お知らせ", "のご案内", "について")},
		{Category: "event", Matches: containsAny("セミナー", "説明会", "イベント", "研修会", "講習会", "交流会", "相談会", "シンポジウム")},
		{Category: "loan", Matches: containsAny("融資制度", "貸付制度", "利子補給", "信用保証")},
		{Category: "membership", Matches: containsAny("会員限定", "会員向け", "共済制度", "組合員")},
		{Category: "category-page", Matches: matchesPattern(regexp.MustCompile(`(補助金|助成金|支援制度).{0,3}一覧`))},
	}
}

// DefaultBracketRules is the sub-taxonomy for the 【location】category：name
// convention. J-Net21 titles name their program category inline, so the
// generic rules would misfire on them; this family replaces the generic one
// for titles following the convention.
func DefaultBracketRules() []Rule {
	return []Rule{
		{Category: "loan", Matches: containsAny("融資", "貸付", "あっせん", "利子補給")},
		{Category: "support-info", Matches: containsAny("支援情報", "経営支援", "相談")},
		{Category: "keyword", Matches: containsAny("セミナー", "講座", "イベント", "認定", "表彰", "募集案内")},
	}
}

// Classifier flags titles that are not genuine subsidy entries. The rule
// tables are fixed at construction and never mutated.
type Classifier struct {
	generic []Rule
	bracket []Rule
}

func NewClassifier(generic, bracket []Rule) *Classifier {
	return &Classifier{
		generic: generic,
		bracket: bracket,
	}
}

func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultGenericRules(), DefaultBracketRules())
}

// Classify returns the category of the first matching rule, or "" when the
// title is a genuine subsidy entry.
func (c *Classifier) Classify(title string) (string, bool) {
	if c == nil || title == "" {
		return "", false
	}

	if bracketConventionPattern.MatchString(title) && !dateBracketPattern.MatchString(title) {
		for _, rule := range c.bracket {
			if rule.Matches(title) {
				return rule.Category, true
			}
		}
		return "", false
	}

	for _, rule := range c.generic {
		if rule.Matches(title) {
			return rule.Category, true
		}
	}
	return "", false
}

func (c *Classifier) IsJunk(title string) bool {
	_, junk := c.Classify(title)
	return junk
}
