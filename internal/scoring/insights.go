package scoring

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// ruleSet is the declarative insight configuration. Rules fire in a fixed
// priority order: overall-score banding first, then pairwise category
// comparisons, then low-category call-outs. All matching rules are included.
type ruleSet struct {
	Bands []struct {
		Min     int    `yaml:"min"`
		Message string `yaml:"message"`
	} `yaml:"bands"`
	Comparisons []struct {
		Greater string `yaml:"greater"`
		Lesser  string `yaml:"lesser"`
		Margin  int    `yaml:"margin"`
		Message string `yaml:"message"`
	} `yaml:"comparisons"`
	Low []struct {
		Category  string `yaml:"category"`
		Threshold int    `yaml:"threshold"`
		Message   string `yaml:"message"`
	} `yaml:"low"`
}

var rules = mustLoadRules()

func mustLoadRules() ruleSet {
	var rs ruleSet
	if err := yaml.Unmarshal(rulesYAML, &rs); err != nil {
		panic(fmt.Sprintf("scoring: invalid embedded rules.yaml: %v", err))
	}
	if len(rs.Bands) == 0 {
		panic("scoring: rules.yaml must define at least one band")
	}
	return rs
}

func buildInsights(overall int, categories CategoryScores) []string {
	byName := map[string]int{
		CategoryReadiness:  categories.Readiness,
		CategoryConfidence: categories.Confidence,
		CategoryClarity:    categories.Clarity,
	}

	insights := make([]string, 0, 4)

	// Bands are ordered highest-first; only the first match applies.
	for _, band := range rules.Bands {
		if overall >= band.Min {
			insights = append(insights, band.Message)
			break
		}
	}

	for _, cmp := range rules.Comparisons {
		if byName[cmp.Greater]-byName[cmp.Lesser] >= cmp.Margin {
			insights = append(insights, cmp.Message)
		}
	}

	for _, low := range rules.Low {
		if byName[low.Category] < low.Threshold {
			insights = append(insights, low.Message)
		}
	}

	return insights
}
