// Package domain implements the lead aggregation pipeline: a pure fold over
// lead records into the dashboard snapshot. No I/O, no clock, deterministic
// for a given input order.
package domain

import (
	"math"
	"sort"
	"time"
)

// LeadRecord is one lead joined with its assessment metadata. Score and
// CompletedAt are nil for partial (abandoned) leads. A record without an
// assessment title failed its join upstream and is skipped.
type LeadRecord struct {
	Score           *int
	CompletedAt     *time.Time
	CreatedAt       time.Time
	Source          string
	AssessmentTitle string
	Audience        string
}

// ScoreBucket is one fixed scoring band. Lower bound inclusive; upper bound
// exclusive except the top band, which includes 100.
type ScoreBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

// SourceCount is one acquisition channel's tally, in first-encounter order.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// AudienceSplit folds every lead into the binary audience segmentation.
type AudienceSplit struct {
	Individual int `json:"individual"`
	Business   int `json:"business"`
}

// AssessmentPerformance aggregates leads per assessment title.
type AssessmentPerformance struct {
	Title          string `json:"title"`
	Leads          int    `json:"leads"`
	Completed      int    `json:"completed"`
	CompletionRate int    `json:"completionRate"`
	AvgScore       int    `json:"avgScore"`
}

// TrendPoint is one UTC day's completions and their average score.
type TrendPoint struct {
	Date     string `json:"date"` // YYYY-MM-DD, UTC
	Count    int    `json:"count"`
	AvgScore int    `json:"avgScore"`
}

// Snapshot is the aggregated dashboard view.
type Snapshot struct {
	TotalLeads         int                     `json:"totalLeads"`
	CompletedLeads     int                     `json:"completedLeads"`
	HighQualityLeads   int                     `json:"highQualityLeads"`
	CompletionRate     int                     `json:"completionRate"`
	AvgScore           int                     `json:"avgScore"`
	TopSource          string                  `json:"topSource"`
	ScoreBuckets       []ScoreBucket           `json:"scoreBuckets"`
	AudienceSplit      AudienceSplit           `json:"audienceSplit"`
	SourceDistribution []SourceCount           `json:"sourceDistribution"`
	Assessments        []AssessmentPerformance `json:"assessments"`
	CompletionTrends   []TrendPoint            `json:"completionTrends"`
}

func emptyBuckets() []ScoreBucket {
	return []ScoreBucket{
		{Label: "80-100", Min: 80, Max: 100},
		{Label: "60-79", Min: 60, Max: 80},
		{Label: "40-59", Min: 40, Max: 60},
		{Label: "0-39", Min: 0, Max: 40},
	}
}

// BuildSnapshot folds lead records into the dashboard snapshot.
//
// A nil score is skipped everywhere scores are aggregated: the lead joins no
// score bucket and no average; denominators count only defined scores. The
// lead still counts toward totals, sources, audience, and per-assessment
// lead counts. Empty input yields the documented empty snapshot rather than
// NaN or a division by zero.
func BuildSnapshot(records []LeadRecord) Snapshot {
	snapshot := Snapshot{
		ScoreBuckets:       emptyBuckets(),
		SourceDistribution: []SourceCount{},
		Assessments:        []AssessmentPerformance{},
		CompletionTrends:   []TrendPoint{},
	}

	var (
		scoreSum    int
		scoreCount  int
		sourceIndex = map[string]int{}
		perTitle    = map[string]*AssessmentPerformance{}
		titleOrder  []string
		titleScores = map[string][2]int{} // sum, count of defined scores
		trendCounts = map[string]int{}
		trendScores = map[string][2]int{}
	)

	for _, record := range records {
		if record.AssessmentTitle == "" {
			// Failed assessment join: skip the record, not the batch.
			continue
		}

		snapshot.TotalLeads++

		if record.CompletedAt != nil {
			snapshot.CompletedLeads++
			day := record.CompletedAt.UTC().Format("2006-01-02")
			trendCounts[day]++
			if record.Score != nil {
				sums := trendScores[day]
				trendScores[day] = [2]int{sums[0] + *record.Score, sums[1] + 1}
			}
		}

		if record.Score != nil {
			scoreSum += *record.Score
			scoreCount++
			if *record.Score >= 80 {
				snapshot.HighQualityLeads++
			}
			for i := range snapshot.ScoreBuckets {
				b := &snapshot.ScoreBuckets[i]
				inTop := i == 0 && *record.Score == b.Max
				if (*record.Score >= b.Min && *record.Score < b.Max) || inTop {
					b.Count++
					break
				}
			}
		}

		if record.Audience == "business" {
			snapshot.AudienceSplit.Business++
		} else {
			snapshot.AudienceSplit.Individual++
		}

		source := record.Source
		if source == "" {
			source = "other"
		}
		if idx, ok := sourceIndex[source]; ok {
			snapshot.SourceDistribution[idx].Count++
		} else {
			sourceIndex[source] = len(snapshot.SourceDistribution)
			snapshot.SourceDistribution = append(snapshot.SourceDistribution, SourceCount{Source: source, Count: 1})
		}

		perf, ok := perTitle[record.AssessmentTitle]
		if !ok {
			perf = &AssessmentPerformance{Title: record.AssessmentTitle}
			perTitle[record.AssessmentTitle] = perf
			titleOrder = append(titleOrder, record.AssessmentTitle)
		}
		perf.Leads++
		if record.CompletedAt != nil {
			perf.Completed++
		}
		if record.Score != nil {
			sums := titleScores[record.AssessmentTitle]
			titleScores[record.AssessmentTitle] = [2]int{sums[0] + *record.Score, sums[1] + 1}
		}
	}

	if snapshot.TotalLeads > 0 {
		snapshot.CompletionRate = roundPct(snapshot.CompletedLeads, snapshot.TotalLeads)
	}
	if scoreCount > 0 {
		snapshot.AvgScore = roundDiv(scoreSum, scoreCount)
	}

	// Top source: highest count wins; ties keep the first-encountered source.
	best := -1
	for _, sc := range snapshot.SourceDistribution {
		if sc.Count > best {
			best = sc.Count
			snapshot.TopSource = sc.Source
		}
	}

	for _, title := range titleOrder {
		perf := perTitle[title]
		if perf.Leads > 0 {
			perf.CompletionRate = roundPct(perf.Completed, perf.Leads)
		}
		if sums := titleScores[title]; sums[1] > 0 {
			perf.AvgScore = roundDiv(sums[0], sums[1])
		}
		snapshot.Assessments = append(snapshot.Assessments, *perf)
	}

	days := make([]string, 0, len(trendCounts))
	for day := range trendCounts {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		point := TrendPoint{Date: day, Count: trendCounts[day]}
		if sums := trendScores[day]; sums[1] > 0 {
			point.AvgScore = roundDiv(sums[0], sums[1])
		}
		snapshot.CompletionTrends = append(snapshot.CompletionTrends, point)
	}

	// No surviving records: the empty snapshot carries empty collections, not
	// zero-count buckets.
	if snapshot.TotalLeads == 0 {
		snapshot.ScoreBuckets = []ScoreBucket{}
	}

	return snapshot
}

func roundPct(part, whole int) int {
	return int(math.Round(100 * float64(part) / float64(whole)))
}

func roundDiv(sum, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}
