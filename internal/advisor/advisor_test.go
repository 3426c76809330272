package advisor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
	"github.com/vijay-prabhu/incomeadvisor/internal/logger/logtest"
	"github.com/vijay-prabhu/incomeadvisor/internal/metrics"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

const (
	risksFactorID  = 101
	incomeFactorID = 102
)

func criteriaA() map[string]int {
	return map[string]int{
		scoring.Difficulty: 2, scoring.HardSkills: 2, scoring.SpecialKnowledge: 2,
		scoring.SpeedOfResult: 9, scoring.FlexibleSchedule: 9, scoring.Engagement: 9,
		scoring.IncomePotential: 9, scoring.FinancialInvestment: 1, scoring.Risks: 1,
		scoring.PsychologicalComfort: 9, scoring.Geography: 9, scoring.ImpactOnCurrentJob: 1,
	}
}

func criteriaB() map[string]int {
	c := criteriaA()
	c[scoring.Difficulty] = 9
	c[scoring.HardSkills] = 9
	c[scoring.SpecialKnowledge] = 9
	c[scoring.IncomePotential] = 2
	return c
}

type fixture struct {
	db      *database.DB
	svc     *Service
	metrics *metrics.Metrics
}

func setup(t *testing.T, opts Options) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(filepath.Join(t.TempDir(), "advisor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for i, name := range factor.All() {
		require.NoError(t, database.InsertFactor(ctx, db, factor.Factor{
			ID: i + 1, Name: string(name), Kind: factor.KindContext,
		}))
	}
	require.NoError(t, database.InsertFactor(ctx, db, factor.Factor{ID: risksFactorID, Name: scoring.Risks, Kind: factor.KindPreference}))
	require.NoError(t, database.InsertFactor(ctx, db, factor.Factor{ID: incomeFactorID, Name: scoring.IncomePotential, Kind: factor.KindPreference}))

	region := &database.Region{Name: "Midlands", F10Value: 5}
	require.NoError(t, database.InsertRegion(ctx, db, region))

	require.NoError(t, database.InsertItem(ctx, db, scoring.Item{ID: 1, Name: "A", Kind: scoring.KindIncomeMethod, Criteria: criteriaA()}))
	require.NoError(t, database.InsertItem(ctx, db, scoring.Item{ID: 2, Name: "B", Kind: scoring.KindIncomeMethod, Criteria: criteriaB()}))

	user := &database.User{Handle: "alex", CurrentIncome: 3000, RegionID: &region.ID}
	for _, name := range factor.Direct() {
		require.NoError(t, user.Answers.Set(name, 5))
	}
	require.NoError(t, db.CreateUser(ctx, user))

	m := metrics.New()
	return &fixture{db: db, svc: New(db, opts, logtest.New(t), m), metrics: m}
}

func TestRecommendSelfRating(t *testing.T) {
	f := setup(t, Options{Params: scoring.DefaultParams(), TopN: 3, SaveRuns: true})
	ctx := context.Background()

	res, err := f.svc.Recommend(ctx, Request{Handle: "alex"})
	require.NoError(t, err)

	assert.Equal(t, scoring.ModeSelfRating, res.Mode)
	assert.Equal(t, scoring.KindIncomeMethod, res.Kind)
	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, "A", res.Recommendations[0].Item.Name)
	assert.Equal(t, 6.28, res.Recommendations[0].Score)
	assert.Equal(t, 1, res.Recommendations[0].Rank)
	assert.Equal(t, "B", res.Recommendations[1].Item.Name)
	assert.Equal(t, 3.9, res.Recommendations[1].Score)
	assert.Empty(t, res.Warnings)

	require.NotEmpty(t, res.RunID)
	run, err := f.db.LatestRun(ctx, res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, res.RunID, run.ID)
	require.Len(t, run.Entries, 2)
	assert.Equal(t, "A", run.Entries[0].ItemName)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RecommendationsTotal.WithLabelValues("self_rating", "income_method")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ItemsScoredTotal.WithLabelValues("self_rating")))
}

func TestRecommendDerivedNormalizerAndTopN(t *testing.T) {
	f := setup(t, Options{Params: scoring.Params{Normalizer: 0, TimeConstant: 10}})

	res, err := f.svc.Recommend(context.Background(), Request{Handle: "ALEX", TopN: 1, NoSave: true})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, 7.76, res.Recommendations[0].Score)
	assert.Empty(t, res.RunID)
}

func TestRecommendNoSave(t *testing.T) {
	f := setup(t, Options{SaveRuns: true})
	ctx := context.Background()

	res, err := f.svc.Recommend(ctx, Request{Handle: "alex", NoSave: true})
	require.NoError(t, err)
	assert.Empty(t, res.RunID)

	run, err := f.db.LatestRun(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestRecommendPreference(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	require.NoError(t, f.svc.SetPreference(ctx, "alex", scoring.Risks, factor.VeryImportant))
	require.NoError(t, f.svc.SetPreference(ctx, "alex", scoring.IncomePotential, factor.Important))

	res, err := f.svc.Recommend(ctx, Request{Handle: "alex", Mode: scoring.ModePreference})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 2)

	// risks 1*5 + income_potential 9*4 and 1*5 + 2*4
	assert.Equal(t, 41.0, res.Recommendations[0].Score)
	assert.Equal(t, 13.0, res.Recommendations[1].Score)

	// ten criteria per item have no preference factor
	assert.Len(t, res.Warnings, 20)
	assert.Equal(t, 20.0, testutil.ToFloat64(f.metrics.JoinMissesTotal.WithLabelValues("criterion")))
}

func TestExplainDoesNotCountJoinMisses(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	user, err := f.db.GetUserByHandle(ctx, "alex")
	require.NoError(t, err)
	require.NoError(t, f.svc.SetPreference(ctx, "alex", scoring.Risks, factor.VeryImportant))
	// a weight whose factor has left the catalog; the store runs on one connection
	_, err = f.db.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	require.NoError(t, f.db.SetPreference(ctx, user.ID, 999, factor.Important))

	for i := 0; i < 2; i++ {
		exp, err := f.svc.Explain(ctx, "alex", scoring.ModePreference, scoring.KindIncomeMethod, 1)
		require.NoError(t, err)
		assert.Equal(t, 5.0, exp.Breakdown.Score)
		assert.NotEmpty(t, exp.Breakdown.Unmatched)
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.JoinMissesTotal.WithLabelValues("weight")))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.JoinMissesTotal.WithLabelValues("criterion")))

	res, err := f.svc.Recommend(ctx, Request{Handle: "alex", Mode: scoring.ModePreference, NoSave: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.JoinMissesTotal.WithLabelValues("weight")))
}

func TestRecommendPreferenceWithoutWeights(t *testing.T) {
	f := setup(t, Options{})

	res, err := f.svc.Recommend(context.Background(), Request{Handle: "alex", Mode: scoring.ModePreference})
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
	assert.Empty(t, res.RunID)
}

func TestRecommendUnknownUser(t *testing.T) {
	f := setup(t, Options{})

	_, err := f.svc.Recommend(context.Background(), Request{Handle: "nobody"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestRecommendUnknownMode(t *testing.T) {
	f := setup(t, Options{})

	_, err := f.svc.Recommend(context.Background(), Request{Handle: "alex", Mode: "lottery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scoring mode")
}

func TestRecommendEmptyCatalogKind(t *testing.T) {
	f := setup(t, Options{})

	res, err := f.svc.Recommend(context.Background(), Request{Handle: "alex", Kind: scoring.KindCareerPath})
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
}

func TestExplain(t *testing.T) {
	f := setup(t, Options{Params: scoring.DefaultParams()})
	ctx := context.Background()

	ex, err := f.svc.Explain(ctx, "alex", "", "", 1)
	require.NoError(t, err)
	assert.Equal(t, "A", ex.Item.Name)
	assert.Equal(t, 6.28, ex.Breakdown.Score)
	assert.Equal(t, 21.0, ex.Breakdown.Divisor)
	assert.Len(t, ex.Breakdown.Terms, scoring.TermCount())
	require.NotNil(t, ex.Breakdown.Derived)
	assert.Equal(t, 8.0, ex.Breakdown.Derived.Complexity)

	_, err = f.svc.Explain(ctx, "alex", "", "", 99)
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestSetFactor(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	require.NoError(t, f.svc.SetFactor(ctx, "alex", string(factor.Motivation), 9))

	u, err := f.db.GetUserByHandle(ctx, "alex")
	require.NoError(t, err)
	require.NotNil(t, u.Answers.Get(factor.Motivation))
	assert.Equal(t, 9.0, *u.Answers.Get(factor.Motivation))

	assert.Error(t, f.svc.SetFactor(ctx, "alex", string(factor.Motivation), 11))
	assert.True(t, errors.Is(f.svc.SetFactor(ctx, "alex", string(factor.CulturalEconomic), 5), factor.ErrUnknownFactor))
	assert.True(t, errors.Is(f.svc.SetFactor(ctx, "nobody", string(factor.Motivation), 5), ErrUserNotFound))
}

func TestSetPreferenceRejectsContextFactor(t *testing.T) {
	f := setup(t, Options{})

	err := f.svc.SetPreference(context.Background(), "alex", string(factor.Motivation), factor.Important)
	assert.True(t, errors.Is(err, factor.ErrUnknownFactor))
}
