package domain

import (
	"testing"
	"time"
)

func intp(v int) *int { return &v }

func timep(t time.Time) *time.Time { return &t }

func day(s string) time.Time {
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return parsed
}

// Scores [95 70 55 30 nil]: every defined score lands in exactly one bucket
// and the nil score lands in none.
func TestScoreBucketPartition(t *testing.T) {
	completed := timep(day("2026-08-01"))
	records := []LeadRecord{
		{Score: intp(95), CompletedAt: completed, Source: "website", AssessmentTitle: "A", Audience: "individual"},
		{Score: intp(70), CompletedAt: completed, Source: "website", AssessmentTitle: "A", Audience: "individual"},
		{Score: intp(55), CompletedAt: completed, Source: "email", AssessmentTitle: "A", Audience: "business"},
		{Score: intp(30), CompletedAt: completed, Source: "email", AssessmentTitle: "A", Audience: "individual"},
		{Score: nil, Source: "referral", AssessmentTitle: "A", Audience: "individual"},
	}

	snapshot := BuildSnapshot(records)

	bucketTotal := 0
	for _, b := range snapshot.ScoreBuckets {
		bucketTotal += b.Count
	}
	if bucketTotal != 4 {
		t.Fatalf("expected 4 bucketed leads (nil skipped), got %d", bucketTotal)
	}
	wantCounts := []int{1, 1, 1, 1}
	for i, b := range snapshot.ScoreBuckets {
		if b.Count != wantCounts[i] {
			t.Fatalf("bucket %s: expected %d, got %d", b.Label, wantCounts[i], b.Count)
		}
	}

	// avg over defined scores only: (95+70+55+30)/4 = 62.5 -> 63
	if snapshot.AvgScore != 63 {
		t.Fatalf("expected avg 63 over defined scores, got %d", snapshot.AvgScore)
	}
	if snapshot.TotalLeads != 5 {
		t.Fatalf("nil-score lead must still count in totals, got %d", snapshot.TotalLeads)
	}
	if snapshot.HighQualityLeads != 1 {
		t.Fatalf("expected 1 high quality lead (95), got %d", snapshot.HighQualityLeads)
	}
}

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		score int
		label string
	}{
		{100, "80-100"},
		{80, "80-100"},
		{79, "60-79"},
		{60, "60-79"},
		{59, "40-59"},
		{40, "40-59"},
		{39, "0-39"},
		{0, "0-39"},
	}

	for _, tc := range cases {
		snapshot := BuildSnapshot([]LeadRecord{
			{Score: intp(tc.score), AssessmentTitle: "A", Source: "website", Audience: "individual"},
		})
		for _, b := range snapshot.ScoreBuckets {
			want := 0
			if b.Label == tc.label {
				want = 1
			}
			if b.Count != want {
				t.Fatalf("score %d: bucket %s count %d, want %d", tc.score, b.Label, b.Count, want)
			}
		}
	}
}

func TestAudienceFoldIsBinary(t *testing.T) {
	records := []LeadRecord{
		{AssessmentTitle: "A", Audience: "business", Source: "website"},
		{AssessmentTitle: "A", Audience: "individual", Source: "website"},
		{AssessmentTitle: "A", Audience: "", Source: "website"},
		{AssessmentTitle: "A", Audience: "nonprofit", Source: "website"},
	}

	snapshot := BuildSnapshot(records)

	if snapshot.AudienceSplit.Business != 1 {
		t.Fatalf("expected 1 business lead, got %d", snapshot.AudienceSplit.Business)
	}
	if snapshot.AudienceSplit.Individual != 3 {
		t.Fatalf("expected 3 individual leads (fold), got %d", snapshot.AudienceSplit.Individual)
	}
	if snapshot.AudienceSplit.Business+snapshot.AudienceSplit.Individual != snapshot.TotalLeads {
		t.Fatal("audience split must partition all leads")
	}
}

func TestTopSourceFirstEncounterTieBreak(t *testing.T) {
	records := []LeadRecord{
		{AssessmentTitle: "A", Source: "email", Audience: "individual"},
		{AssessmentTitle: "A", Source: "website", Audience: "individual"},
		{AssessmentTitle: "A", Source: "website", Audience: "individual"},
		{AssessmentTitle: "A", Source: "email", Audience: "individual"},
	}

	snapshot := BuildSnapshot(records)

	// email and website tie at 2; email was encountered first.
	if snapshot.TopSource != "email" {
		t.Fatalf("expected first-encountered source to win the tie, got %q", snapshot.TopSource)
	}
	if len(snapshot.SourceDistribution) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(snapshot.SourceDistribution))
	}
	if snapshot.SourceDistribution[0].Source != "email" {
		t.Fatal("source distribution must keep insertion order")
	}
}

func TestEmptyInputYieldsEmptySnapshot(t *testing.T) {
	snapshot := BuildSnapshot(nil)

	if snapshot.TotalLeads != 0 || snapshot.CompletedLeads != 0 {
		t.Fatalf("expected zero counts, got %+v", snapshot)
	}
	if snapshot.CompletionRate != 0 || snapshot.AvgScore != 0 {
		t.Fatalf("expected zero rates, got %+v", snapshot)
	}
	if snapshot.TopSource != "" {
		t.Fatalf("expected no top source, got %q", snapshot.TopSource)
	}
	if len(snapshot.ScoreBuckets) != 0 {
		t.Fatalf("empty snapshot must carry no score buckets, got %+v", snapshot.ScoreBuckets)
	}
	if len(snapshot.SourceDistribution) != 0 || len(snapshot.Assessments) != 0 || len(snapshot.CompletionTrends) != 0 {
		t.Fatalf("expected empty collections, got %+v", snapshot)
	}

	// A batch where every record fails its join folds to the same shape.
	malformed := BuildSnapshot([]LeadRecord{{AssessmentTitle: "", Score: intp(90)}})
	if malformed.TotalLeads != 0 || len(malformed.ScoreBuckets) != 0 {
		t.Fatalf("expected the empty shape for an all-malformed batch, got %+v", malformed)
	}
}

func TestMalformedRecordsSkipped(t *testing.T) {
	records := []LeadRecord{
		{AssessmentTitle: "", Score: intp(90), Source: "website", Audience: "individual"},
		{AssessmentTitle: "A", Score: intp(50), Source: "website", Audience: "individual"},
	}

	snapshot := BuildSnapshot(records)

	if snapshot.TotalLeads != 1 {
		t.Fatalf("expected malformed record skipped, got %d leads", snapshot.TotalLeads)
	}
	if snapshot.AvgScore != 50 {
		t.Fatalf("expected avg from valid record only, got %d", snapshot.AvgScore)
	}
}

func TestCompletionTrendsGroupByUTCDate(t *testing.T) {
	records := []LeadRecord{
		{AssessmentTitle: "A", Source: "website", Audience: "individual", Score: intp(90),
			CompletedAt: timep(time.Date(2026, 8, 2, 23, 30, 0, 0, time.FixedZone("UTC+2", 2*3600)))},
		{AssessmentTitle: "A", Source: "website", Audience: "individual", Score: intp(70),
			CompletedAt: timep(day("2026-08-02"))},
		{AssessmentTitle: "A", Source: "website", Audience: "individual",
			CompletedAt: timep(day("2026-08-01"))},
	}

	snapshot := BuildSnapshot(records)

	if len(snapshot.CompletionTrends) != 2 {
		t.Fatalf("expected 2 trend days, got %+v", snapshot.CompletionTrends)
	}
	if snapshot.CompletionTrends[0].Date != "2026-08-01" || snapshot.CompletionTrends[0].Count != 1 {
		t.Fatalf("expected 2026-08-01 first, got %+v", snapshot.CompletionTrends[0])
	}
	// 23:30 UTC+2 is 21:30 UTC on Aug 2.
	if snapshot.CompletionTrends[1].Date != "2026-08-02" || snapshot.CompletionTrends[1].Count != 2 {
		t.Fatalf("expected 2 completions on 2026-08-02, got %+v", snapshot.CompletionTrends[1])
	}
	if snapshot.CompletionTrends[1].AvgScore != 80 {
		t.Fatalf("expected day avg 80 over defined scores, got %d", snapshot.CompletionTrends[1].AvgScore)
	}
	if snapshot.CompletionTrends[0].AvgScore != 0 {
		t.Fatalf("day with no defined scores must average 0, got %d", snapshot.CompletionTrends[0].AvgScore)
	}
}

func TestAssessmentPerformanceGrouping(t *testing.T) {
	completed := timep(day("2026-08-01"))
	records := []LeadRecord{
		{AssessmentTitle: "Growth", Score: intp(80), CompletedAt: completed, Source: "website", Audience: "individual"},
		{AssessmentTitle: "Growth", Score: nil, Source: "website", Audience: "individual"},
		{AssessmentTitle: "Career", Score: intp(60), CompletedAt: completed, Source: "email", Audience: "business"},
	}

	snapshot := BuildSnapshot(records)

	if len(snapshot.Assessments) != 2 {
		t.Fatalf("expected 2 assessments, got %d", len(snapshot.Assessments))
	}
	growth := snapshot.Assessments[0]
	if growth.Title != "Growth" || growth.Leads != 2 || growth.Completed != 1 {
		t.Fatalf("unexpected growth stats: %+v", growth)
	}
	if growth.CompletionRate != 50 {
		t.Fatalf("expected 50%% completion, got %d", growth.CompletionRate)
	}
	// The nil score joins no average: 80/1, not 80/2.
	if growth.AvgScore != 80 {
		t.Fatalf("expected avg 80 over defined scores, got %d", growth.AvgScore)
	}
}
