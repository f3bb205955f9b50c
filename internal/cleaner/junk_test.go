package cleaner

import "testing"

func TestClassify_GenericPatterns(t *testing.T) {
	t.Parallel()

	classifier := NewDefaultClassifier()

	cases := []struct {
		title    string
		category string
	}{
		{"経営者向けセミナーのご参加募集", "event"},
		{"制度改正のお知らせ", "announcement"},
		{"小規模事業者向け融資制度", "loan"},
		{"会員限定の福利厚生サービス", "membership"},
		{"県内の補助金・助成金一覧", "category-page"},
	}
	for _, tc := range cases {
		category, junk := classifier.Classify(tc.title)
		if !junk {
			t.Fatalf("expected %q to be junk", tc.title)
		}
		if category != tc.category {
			t.Fatalf("title %q: got category %q want %q", tc.title, category, tc.category)
		}
	}
}

func TestClassify_GenuineSubsidyTitles(t *testing.T) {
	t.Parallel()

	classifier := NewDefaultClassifier()

	titles := []string{
		"ものづくり・商業・サービス生産性向上促進補助金",
		"小規模事業者持続化補助金",
		"省エネルギー設備投資支援事業",
	}
	for _, title := range titles {
		if classifier.IsJunk(title) {
			t.Fatalf("did not expect %q to be junk", title)
		}
	}
}

func TestClassify_BracketConvention(t *testing.T) {
	t.Parallel()

	classifier := NewDefaultClassifier()

	category, junk := classifier.Classify("【千代田区】融資・貸付：創業融資あっせん")
	if !junk {
		t.Fatalf("expected bracket loan title to be junk")
	}
	if category != "loan" {
		t.Fatalf("got category %q want loan", category)
	}

	if !classifier.IsJunk("【港区】支援情報：経営相談窓口のご利用") {
		t.Fatalf("expected support-info bracket title to be junk")
	}

	// A genuine program under the bracket convention survives even when the
	// generic family would have flagged its wording.
	if classifier.IsJunk("【新宿区】補助金：設備投資補助金のご案内") {
		t.Fatalf("did not expect bracket subsidy title to be junk")
	}
}

func TestClassify_DateBracketExemption(t *testing.T) {
	t.Parallel()

	classifier := NewDefaultClassifier()

	// 【令和N年…】 titles skip the bracket sub-taxonomy: the 相談 marker must
	// not fire even though a colon follows the bracket.
	if classifier.IsJunk("【令和7年度】経営相談対応型支援金：申請分") {
		t.Fatalf("did not expect date-bracket title to hit the bracket rules")
	}

	// The generic family still applies to exempted titles.
	if !classifier.IsJunk("【令和7年度】補助金セミナー開催") {
		t.Fatalf("expected generic event rule to fire on date-bracket title")
	}
}

func TestClassify_EmptyTitle(t *testing.T) {
	t.Parallel()

	classifier := NewDefaultClassifier()
	if classifier.IsJunk("") {
		t.Fatalf("empty title must never classify as junk")
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier([]Rule{
		{Category: "first", Matches: containsAny("補助")},
		{Category: "second", Matches: containsAny("補助金")},
	}, nil)

	category, junk := classifier.Classify("補助金のページ")
	if !junk || category != "first" {
		t.Fatalf("got (%q, %t), want first rule to win", category, junk)
	}
}
