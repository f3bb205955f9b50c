package cleaner

import (
	"reflect"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"ものづくり補助金（第17回）", "ものづくり補助金"},
		{"ものづくり補助金（第18回）", "ものづくり補助金"},
		{"【令和7年度】持続化補助金", "持続化補助金"},
		{"2025年度 省エネ設備導入支援", "省エネ設備導入支援"},
		{"IT導入補助金 2024年度", "it導入補助金"},
		{"ver2024 パイロット事業", "ver2024パイロット事業"},
		{"「先端設備」導入計画\t支援", "先端設備導入計画支援"},
		{"補助金 第 18 回", "補助金"},
		{"2025 年度 支援", "支援"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTitle(tc.in); got != tc.want {
			t.Fatalf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTitle_Idempotent(t *testing.T) {
	t.Parallel()

	titles := []string{
		"ものづくり補助金（第17回）",
		"【令和7年度】創業支援事業 第2期",
		"平成30年度クラウド活用補助",
		"  mixed ASCII と日本語  ",
		// Tokens split by whitespace must reduce fully on the first pass.
		"補助金 第 18 回",
		"ものづくり補助金 第 17 回",
		"2025 年度 支援",
		"令和 7 年度 創業支援",
	}
	for _, title := range titles {
		once := NormalizeTitle(title)
		twice := NormalizeTitle(once)
		if once != twice {
			t.Fatalf("NormalizeTitle not idempotent for %q: %q vs %q", title, once, twice)
		}
	}
}

func TestNormalizeRegions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in          []string
		want        []string
		wantChanged bool
	}{
		{[]string{"東京"}, []string{"東京都"}, true},
		{[]string{"大阪", "京都"}, []string{"大阪府", "京都府"}, true},
		{[]string{"北海道", "全国"}, []string{"北海道", "全国"}, false},
		{[]string{"愛知"}, []string{"愛知県"}, true},
		{[]string{"神奈川県"}, []string{"神奈川県"}, false},
		{[]string{"東京都", "埼玉県"}, []string{"東京都", "埼玉県"}, false},
		{[]string{""}, []string{""}, false},
		{nil, nil, false},
	}
	for _, tc := range cases {
		got, changed := NormalizeRegions(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("NormalizeRegions(%v) = %v, want %v", tc.in, got, tc.want)
		}
		if changed != tc.wantChanged {
			t.Fatalf("NormalizeRegions(%v) changed = %t, want %t", tc.in, changed, tc.wantChanged)
		}
	}
}

func TestNormalizeRegions_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := [][]string{
		{"東京", "大阪"},
		{"愛知", "岐阜"},
		{"北海道"},
	}
	for _, in := range inputs {
		once, _ := NormalizeRegions(in)
		twice, changed := NormalizeRegions(once)
		if changed {
			t.Fatalf("second pass over %v reported a change", once)
		}
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("NormalizeRegions not idempotent: %v vs %v", once, twice)
		}
	}
}

func TestIsStrictDate(t *testing.T) {
	t.Parallel()

	valid := []string{"2025-04-01", "1999-12-31", "2026-02-29"}
	for _, v := range valid {
		if !IsStrictDate(v) {
			t.Fatalf("expected %q to be accepted", v)
		}
	}

	invalid := []string{"", "令和7年4月", "2025/04/01", "2025-4-1", "2025-04-01T00:00:00Z", "随時"}
	for _, v := range invalid {
		if IsStrictDate(v) {
			t.Fatalf("expected %q to be rejected", v)
		}
	}
}
