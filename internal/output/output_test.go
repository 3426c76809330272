package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/incomeadvisor/internal/advisor"
	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

func sampleResult() *advisor.Result {
	item := scoring.Item{ID: 3, Name: "Online tutoring", Kind: scoring.KindIncomeMethod, Criteria: map[string]int{scoring.Risks: 2}}
	return &advisor.Result{
		Handle: "alex",
		Mode:   scoring.ModeSelfRating,
		Kind:   scoring.KindIncomeMethod,
		Recommendations: []scoring.Recommendation{
			{Rank: 1, Item: item, Derived: scoring.Derived{Complexity: 8, NeededTime: 1.37}, Score: 7.76},
		},
		RunID: "run-1",
	}
}

func TestRecommendationsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "income method recommendations for alex")
	assert.Contains(t, out, "Online tutoring")
	assert.Contains(t, out, "7.76")
	assert.Contains(t, out, "1.37")
	assert.Contains(t, out, "Saved as run run-1")
}

func TestRecommendationsTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, &advisor.Result{Handle: "alex", Mode: scoring.ModePreference}))
	assert.Contains(t, buf.String(), "No recommendations for alex")
}

func TestExplanationDetail(t *testing.T) {
	ex := &advisor.Explanation{
		Handle: "alex",
		Item:   scoring.Item{Name: "Online tutoring"},
		Breakdown: scoring.Breakdown{
			Mode:      scoring.ModePreference,
			Terms:     []scoring.Term{{Label: scoring.Risks, Value: 10}},
			Sum:       10,
			Divisor:   1,
			Score:     10,
			Unmatched: []string{scoring.Geography},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, ex))

	out := buf.String()
	assert.Contains(t, out, "Online tutoring for alex (preference)")
	assert.Contains(t, out, scoring.Risks)
	assert.NotContains(t, out, "divided by")
	assert.Contains(t, out, "Unmatched criteria: geography")
}

func TestItemDetail(t *testing.T) {
	item := &scoring.Item{
		ID:       1,
		Name:     "Data analyst course",
		Kind:     scoring.KindCareerPath,
		Criteria: map[string]int{scoring.HoursToMaster: 240, scoring.MarketDemand: 7},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, item))

	out := buf.String()
	assert.Contains(t, out, "(#1, career path)")
	assert.Contains(t, out, "240 hours")
	assert.Contains(t, out, "#######...  7")
	assert.Contains(t, out, "Needed time:  240")
}

func TestItemDetailUsesConfiguredParams(t *testing.T) {
	t.Cleanup(func() { SetParams(scoring.DefaultParams()) })

	item := scoring.Item{
		ID:   2,
		Name: "Tutoring",
		Kind: scoring.KindIncomeMethod,
		Criteria: map[string]int{
			scoring.SpeedOfResult:    10,
			scoring.FlexibleSchedule: 10,
			scoring.Engagement:       10,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, &item))
	assert.Contains(t, buf.String(), "Needed time:  1\n")

	SetParams(scoring.Params{Normalizer: scoring.DefaultNormalizer, TimeConstant: 20})

	buf.Reset()
	require.NoError(t, TableTo(&buf, &item))
	assert.Contains(t, buf.String(), "Needed time:  8\n")

	buf.Reset()
	require.NoError(t, TableTo(&buf, []scoring.Item{item}))
	assert.Contains(t, buf.String(), "8")
}

func TestUserDetail(t *testing.T) {
	u := &database.User{Handle: "alex", CurrentIncome: 2500}
	require.NoError(t, u.Answers.Set(factor.Motivation, 7))

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, u))

	out := buf.String()
	assert.Contains(t, out, "Region:      (not set)")
	assert.Contains(t, out, "Answered:    1 of 9 factors")
	assert.Contains(t, out, "#######... 7")
}

func TestFactorsAndRegionsTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, []factor.Factor{{ID: 101, Name: scoring.Risks, Kind: factor.KindPreference}}))
	assert.Contains(t, buf.String(), "risks")
	assert.Contains(t, buf.String(), "preference")

	buf.Reset()
	require.NoError(t, TableTo(&buf, []database.Region{{ID: 1, Name: "Capital metro", F10Value: 8.5}}))
	assert.Contains(t, buf.String(), "Capital metro")
	assert.Contains(t, buf.String(), "8.5")

	buf.Reset()
	require.NoError(t, TableTo(&buf, []database.Region{}))
	assert.Contains(t, buf.String(), "incomeadvisor seed")
}

func TestRunTables(t *testing.T) {
	run := database.RecommendationRun{
		ID:        "run-7",
		Mode:      "preference",
		Kind:      "career_path",
		CreatedAt: time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
		Entries: []database.RecommendationEntry{
			{Rank: 1, ItemID: 2, ItemName: "Data analyst", Score: 41},
			{Rank: 2, ItemID: 5, ItemName: "UX designer", Score: 13},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, []database.RecommendationRun{run}))
	assert.Contains(t, buf.String(), "May 04 09:30")
	assert.Contains(t, buf.String(), "Data analyst")

	buf.Reset()
	require.NoError(t, TableTo(&buf, &run))
	out := buf.String()
	assert.Contains(t, out, "Run run-7")
	assert.Contains(t, out, "career path")
	assert.Contains(t, out, "UX designer")
	assert.Contains(t, out, "13")

	buf.Reset()
	require.NoError(t, TableTo(&buf, []database.RecommendationRun{}))
	assert.Contains(t, buf.String(), "No saved recommendations.")
}

func TestUnsupportedType(t *testing.T) {
	err := TableTo(&bytes.Buffer{}, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported data type")
}

func TestOutputTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputTo(&buf, "json", sampleResult()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "alex", decoded["handle"])
	assert.Equal(t, "run-1", decoded["run_id"])

	assert.Error(t, OutputTo(&buf, "yaml", sampleResult()))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "###.......", bar(3, 10))
	assert.Equal(t, "..........", bar(-1, 10))
	assert.Equal(t, "##########", bar(12, 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "one two\nthree", wordWrap("one two three", 8))
}
