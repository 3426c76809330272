// Package advisor runs recommendations for stored users against the stored catalog.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
	"github.com/vijay-prabhu/incomeadvisor/internal/logger"
	"github.com/vijay-prabhu/incomeadvisor/internal/metrics"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

// ErrUserNotFound is returned when no user has the requested handle
var ErrUserNotFound = errors.New("user not found")

// ErrItemNotFound is returned when a catalog item does not exist
var ErrItemNotFound = errors.New("catalog item not found")

// Store is the persistence the advisor needs
type Store interface {
	GetUserByHandle(ctx context.Context, handle string) (*database.User, error)
	UpdateUser(ctx context.Context, u *database.User) error
	GetRegion(ctx context.Context, id int) (*database.Region, error)
	FactorCatalog(ctx context.Context) (*factor.Catalog, error)
	GetPreferences(ctx context.Context, userID string) (scoring.Weights, error)
	SetPreference(ctx context.Context, userID string, factorID int, level factor.Importance) error
	ListItems(ctx context.Context, kind scoring.Kind) ([]scoring.Item, error)
	GetItem(ctx context.Context, kind scoring.Kind, id int) (*scoring.Item, error)
	SaveRun(ctx context.Context, run *database.RecommendationRun) error
}

// Options configures a Service
type Options struct {
	Params   scoring.Params
	Mode     scoring.Mode
	TopN     int
	SaveRuns bool
}

// Service orchestrates the resolver, the scorers and the recommender
type Service struct {
	store   Store
	opts    Options
	log     logger.Logger
	metrics *metrics.Metrics
}

// New creates a Service. log and m may be nil.
func New(store Store, opts Options, log logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Params == (scoring.Params{}) {
		opts.Params = scoring.DefaultParams()
	}
	if opts.Mode == "" {
		opts.Mode = scoring.ModeSelfRating
	}
	if opts.TopN <= 0 {
		opts.TopN = 3
	}
	return &Service{store: store, opts: opts, log: log, metrics: m}
}

// Params returns the formula constants the service scores with
func (s *Service) Params() scoring.Params {
	return s.opts.Params
}

// Request selects what to recommend. Zero fields fall back to the service options.
type Request struct {
	Handle string
	Mode   scoring.Mode
	Kind   scoring.Kind
	TopN   int
	NoSave bool
}

// Result is a ranked recommendation for one user
type Result struct {
	User            *database.User           `json:"-"`
	Handle          string                   `json:"handle"`
	Mode            scoring.Mode             `json:"mode"`
	Kind            scoring.Kind             `json:"kind"`
	Recommendations []scoring.Recommendation `json:"recommendations"`
	RunID           string                   `json:"run_id,omitempty"`
	Warnings        []scoring.JoinMiss       `json:"warnings,omitempty"`
}

// Recommend ranks the catalog of req.Kind for the user
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	mode, kind, topN := s.resolveRequest(req)

	user, err := s.user(ctx, req.Handle)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListItems(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	result := &Result{User: user, Handle: user.Handle, Mode: mode, Kind: kind}
	scorer, err := s.scorerFor(ctx, user, mode, s.joinMissHandler(user, result))
	if err != nil {
		return nil, err
	}

	result.Recommendations = scoring.Recommend(scorer, items, topN, s.opts.Params)
	s.metrics.ObserveRun(string(mode), string(kind), len(items), time.Since(start))

	s.log.Debug("recommendation computed", map[string]interface{}{
		"user":     user.Handle,
		"mode":     mode,
		"kind":     kind,
		"catalog":  len(items),
		"returned": len(result.Recommendations),
	})

	if s.opts.SaveRuns && !req.NoSave && len(result.Recommendations) > 0 {
		run := &database.RecommendationRun{
			UserID: user.ID,
			Mode:   string(mode),
			Kind:   string(kind),
		}
		for _, r := range result.Recommendations {
			run.Entries = append(run.Entries, database.RecommendationEntry{
				Rank:     r.Rank,
				ItemID:   r.Item.ID,
				ItemName: r.Item.Name,
				Score:    r.Score,
			})
		}
		if err := s.store.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("save recommendation: %w", err)
		}
		result.RunID = run.ID
	}

	return result, nil
}

// Explanation is the score breakdown of one item for one user
type Explanation struct {
	Handle    string            `json:"handle"`
	Item      scoring.Item      `json:"item"`
	Breakdown scoring.Breakdown `json:"breakdown"`
}

// Explain returns how an item's score for the user is composed
func (s *Service) Explain(ctx context.Context, handle string, mode scoring.Mode, kind scoring.Kind, itemID int) (*Explanation, error) {
	mode, kind, _ = s.resolveRequest(Request{Mode: mode, Kind: kind})

	user, err := s.user(ctx, handle)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, kind, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s %d", ErrItemNotFound, kind, itemID)
	}

	// join misses are reported by Recommend only
	scorer, err := s.scorerFor(ctx, user, mode, nil)
	if err != nil {
		return nil, err
	}

	return &Explanation{Handle: user.Handle, Item: *item, Breakdown: scorer.Explain(*item)}, nil
}

// SetFactor stores a 0..10 self-rating for one of the directly answered factors
func (s *Service) SetFactor(ctx context.Context, handle, name string, value float64) error {
	user, err := s.user(ctx, handle)
	if err != nil {
		return err
	}

	n, err := factor.ParseName(name)
	if err != nil {
		return err
	}
	if err := user.Answers.Set(n, value); err != nil {
		return err
	}
	return s.store.UpdateUser(ctx, user)
}

// SetPreference stores an importance level for a preference factor given by name
func (s *Service) SetPreference(ctx context.Context, handle, name string, level factor.Importance) error {
	user, err := s.user(ctx, handle)
	if err != nil {
		return err
	}

	catalog, err := s.store.FactorCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load factors: %w", err)
	}
	f, ok := catalog.ByName(name)
	if !ok || f.Kind != factor.KindPreference {
		return fmt.Errorf("%w: %q is not a preference factor", factor.ErrUnknownFactor, name)
	}
	return s.store.SetPreference(ctx, user.ID, f.ID, level)
}

func (s *Service) resolveRequest(req Request) (scoring.Mode, scoring.Kind, int) {
	mode := req.Mode
	if mode == "" {
		mode = s.opts.Mode
	}
	kind := req.Kind
	if kind == "" {
		kind = scoring.KindIncomeMethod
	}
	topN := req.TopN
	if topN <= 0 {
		topN = s.opts.TopN
	}
	return mode, kind, topN
}

func (s *Service) user(ctx context.Context, handle string) (*database.User, error) {
	user, err := s.store.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, handle)
	}
	return user, nil
}

func (s *Service) scorerFor(ctx context.Context, user *database.User, mode scoring.Mode, onMiss scoring.JoinMissFunc) (scoring.Scorer, error) {
	switch mode {
	case scoring.ModePreference:
		weights, err := s.store.GetPreferences(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("load preferences: %w", err)
		}
		catalog, err := s.store.FactorCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("load factors: %w", err)
		}
		return scoring.NewPreferenceScorer(weights, catalog, onMiss), nil

	case scoring.ModeSelfRating:
		var region *scoring.Region
		if user.RegionID != nil {
			r, err := s.store.GetRegion(ctx, *user.RegionID)
			if err != nil {
				return nil, fmt.Errorf("load region: %w", err)
			}
			if r != nil {
				region = &scoring.Region{Name: r.Name, F10Value: r.F10Value}
			}
		}
		vector := scoring.ResolveContext(user.Answers, region)
		return scoring.NewSelfRatingScorer(vector, s.opts.Params), nil

	default:
		return nil, fmt.Errorf("unknown scoring mode %q", mode)
	}
}

// joinMissHandler logs and counts every criterion or weight that fails the name join
func (s *Service) joinMissHandler(user *database.User, result *Result) scoring.JoinMissFunc {
	log := s.log.With(map[string]interface{}{"user": user.Handle})
	return func(m scoring.JoinMiss) {
		result.Warnings = append(result.Warnings, m)
		s.metrics.JoinMiss(m.Source)

		fields := map[string]interface{}{"source": m.Source}
		if m.Source == "weight" {
			fields["factor_id"] = m.FactorID
		} else {
			fields["item"] = m.Item
			fields["criterion"] = m.Criterion
		}
		log.Warn("factor name join miss, term contributes zero", fields)
	}
}
