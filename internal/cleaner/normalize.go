package cleaner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	bracketReplacer = strings.NewReplacer(
		"(", "", ")", "",
		"（", "", "）", "",
		"【", "", "】", "",
		"[", "", "]", "",
		"［", "", "］", "",
		"「", "", "」", "",
		"『", "", "』", "",
		"〈", "", "〉", "",
		"《", "", "》", "",
	)

	// Round/session counters and fiscal-year tokens vary between reposts of
	// the same program and must not keep two reposts from matching.
	roundTokenPattern     = regexp.MustCompile(`第\d+[回次弾期]`)
	fiscalYearTokenPattern = regexp.MustCompile(`(令和|平成)\d+年度?|20\d{2}年度?`)
)

// NormalizeTitle canonicalizes a title for similarity comparison. The result
// is never written back to a record. Idempotent: applying it twice yields the
// same string.
func NormalizeTitle(title string) string {
	s := bracketReplacer.Replace(title)

	// Whitespace goes first: a space inside a token (第 18 回) would
	// otherwise hide it from the patterns on the first pass.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	s = roundTokenPattern.ReplaceAllString(s, "")
	s = fiscalYearTokenPattern.ReplaceAllString(s, "")
	return strings.ToLower(s)
}

// regionFullNames maps single-token region abbreviations to their official
// names. Entries that are already official map to themselves so the suffix
// rule below leaves them alone.
var regionFullNames = map[string]string{
	"東京":  "東京都",
	"大阪":  "大阪府",
	"京都":  "京都府",
	"北海道": "北海道",
	"全国":  "全国",
}

const regionSuffixes = "都道府県"

// NormalizeRegions maps each area entry through the abbreviation table, then
// appends 県 to any remaining short entry that does not already end in a
// region suffix. Returns the mapped list and whether it differs by value from
// the input. Idempotent.
func NormalizeRegions(areas []string) ([]string, bool) {
	if len(areas) == 0 {
		return areas, false
	}

	mapped := make([]string, len(areas))
	changed := false
	for i, area := range areas {
		entry := area
		if entry == "" {
			mapped[i] = entry
			continue
		}
		if full, ok := regionFullNames[entry]; ok {
			entry = full
		} else if utf8.RuneCountInString(entry) <= 3 && !endsWithRegionSuffix(entry) {
			entry += "県"
		}
		mapped[i] = entry
		if entry != area {
			changed = true
		}
	}
	return mapped, changed
}

func endsWithRegionSuffix(area string) bool {
	last, size := utf8.DecodeLastRuneInString(area)
	if size == 0 || last == utf8.RuneError {
		return false
	}
	return strings.ContainsRune(regionSuffixes, last)
}

var strictDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsStrictDate reports whether the value is a well-formed YYYY-MM-DD string.
// Malformed dates are discarded by the planner, never reinterpreted.
func IsStrictDate(value string) bool {
	return strictDatePattern.MatchString(value)
}
