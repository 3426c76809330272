package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vijay-prabhu/incomeadvisor/internal/advisor"
	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

func (s *Server) registerHandlers() {
	s.handlers["list_factors"] = s.handleListFactors
	s.handlers["list_catalog"] = s.handleListCatalog
	s.handlers["get_catalog_item"] = s.handleGetCatalogItem
	s.handlers["recommend"] = s.handleRecommend
	s.handlers["explain_score"] = s.handleExplainScore
	s.handlers["set_factor"] = s.handleSetFactor
	s.handlers["set_preference"] = s.handleSetPreference
	s.handlers["get_history"] = s.handleGetHistory
	s.handlers["get_stats"] = s.handleGetStats
}

// decode unmarshals optional tool arguments
func decode(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

type listFactorsParams struct {
	Kind string `json:"kind"`
}

func (s *Server) handleListFactors(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listFactorsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	factors, err := s.db.ListFactors(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if p.Kind == "" {
		return factors, nil
	}

	filtered := make([]factor.Factor, 0, len(factors))
	for _, f := range factors {
		if string(f.Kind) == p.Kind {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

type listCatalogParams struct {
	Kind string `json:"kind"`
}

func (s *Server) handleListCatalog(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listCatalogParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	kind, err := scoring.ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}

	items, err := s.db.ListItems(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return items, nil
}

type getCatalogItemParams struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
}

type catalogItemResult struct {
	Item    *scoring.Item   `json:"item"`
	Derived scoring.Derived `json:"derived"`
}

func (s *Server) handleGetCatalogItem(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getCatalogItemParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.ID <= 0 {
		return nil, fmt.Errorf("id is required")
	}

	kind, err := scoring.ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}

	item, err := s.db.GetItem(ctx, kind, p.ID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%s not found: %d", kind, p.ID)
	}

	return catalogItemResult{
		Item:    item,
		Derived: scoring.CalculateDerived(*item, s.advisor.Params()),
	}, nil
}

type recommendParams struct {
	Handle string `json:"handle"`
	Mode   string `json:"mode"`
	Kind   string `json:"kind"`
	TopN   int    `json:"top_n"`
	NoSave bool   `json:"no_save"`
}

func (s *Server) handleRecommend(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p recommendParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Handle == "" {
		return nil, fmt.Errorf("handle is required")
	}

	mode, kind, err := parseModeKind(p.Mode, p.Kind)
	if err != nil {
		return nil, err
	}

	return s.advisor.Recommend(ctx, advisor.Request{
		Handle: p.Handle,
		Mode:   mode,
		Kind:   kind,
		TopN:   p.TopN,
		NoSave: p.NoSave,
	})
}

type explainScoreParams struct {
	Handle string `json:"handle"`
	Mode   string `json:"mode"`
	Kind   string `json:"kind"`
	ItemID int    `json:"item_id"`
}

func (s *Server) handleExplainScore(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p explainScoreParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Handle == "" || p.ItemID <= 0 {
		return nil, fmt.Errorf("handle and item_id are required")
	}

	mode, kind, err := parseModeKind(p.Mode, p.Kind)
	if err != nil {
		return nil, err
	}
	return s.advisor.Explain(ctx, p.Handle, mode, kind, p.ItemID)
}

type setFactorParams struct {
	Handle string   `json:"handle"`
	Factor string   `json:"factor"`
	Value  *float64 `json:"value"`
}

func (s *Server) handleSetFactor(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p setFactorParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Handle == "" || p.Factor == "" || p.Value == nil {
		return nil, fmt.Errorf("handle, factor and value are required")
	}

	if err := s.advisor.SetFactor(ctx, p.Handle, p.Factor, *p.Value); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Set %s = %g for %s", p.Factor, *p.Value, p.Handle), nil
}

type setPreferenceParams struct {
	Handle string          `json:"handle"`
	Factor string          `json:"factor"`
	Level  json.RawMessage `json:"level"`
}

func (s *Server) handleSetPreference(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p setPreferenceParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Handle == "" || p.Factor == "" || len(p.Level) == 0 {
		return nil, fmt.Errorf("handle, factor and level are required")
	}

	// level may arrive as a number or as a label string
	raw := strings.Trim(string(p.Level), `"`)
	level, err := factor.ParseImportance(raw)
	if err != nil {
		return nil, err
	}

	if err := s.advisor.SetPreference(ctx, p.Handle, p.Factor, level); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Set %s = %s for %s", p.Factor, level, p.Handle), nil
}

type getHistoryParams struct {
	Handle string `json:"handle"`
	Limit  int    `json:"limit"`
}

func (s *Server) handleGetHistory(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getHistoryParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Handle == "" {
		return nil, fmt.Errorf("handle is required")
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}

	u, err := s.db.GetUserByHandle(ctx, p.Handle)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %s", advisor.ErrUserNotFound, p.Handle)
	}

	runs, err := s.db.ListRuns(ctx, u.ID, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return runs, nil
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	stats, err := s.db.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return stats, nil
}

func parseModeKind(mode, kind string) (scoring.Mode, scoring.Kind, error) {
	var m scoring.Mode
	if mode != "" {
		parsed, err := scoring.ParseMode(mode)
		if err != nil {
			return "", "", err
		}
		m = parsed
	}
	k, err := scoring.ParseKind(kind)
	if err != nil {
		return "", "", err
	}
	return m, k, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case FactorsURI:
		return s.getResourceFactors(ctx)
	case CatalogURI:
		return s.getResourceCatalog(ctx)
	case SummaryURI:
		return s.getResourceSummary(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceFactors(ctx context.Context) (string, error) {
	catalog, err := s.db.FactorCatalog(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Factor Catalog\n==============\n\n")
	if catalog.Len() == 0 {
		b.WriteString("No factors yet. Run 'incomeadvisor seed' to load the catalog.\n")
		return b.String(), nil
	}

	b.WriteString("CONTEXT FACTORS (self-rating 0..10):\n")
	for _, f := range catalog.Factors() {
		if f.Kind == factor.KindContext {
			fmt.Fprintf(&b, "  %3d  %-36s %s\n", f.ID, f.Name, f.Prompt)
		}
	}

	b.WriteString("\nPREFERENCE FACTORS (importance 1..5):\n")
	for _, f := range catalog.Preferences() {
		fmt.Fprintf(&b, "  %3d  %-36s %s\n", f.ID, f.Name, f.Prompt)
	}
	return b.String(), nil
}

func (s *Server) getResourceCatalog(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("Item Catalog\n============\n")

	for _, kind := range []scoring.Kind{scoring.KindIncomeMethod, scoring.KindCareerPath} {
		items, err := s.db.ListItems(ctx, kind)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "\n%s (%d):\n", strings.ToUpper(strings.ReplaceAll(string(kind), "_", " ")), len(items))
		for _, it := range items {
			d := scoring.CalculateDerived(it, s.advisor.Params())
			fmt.Fprintf(&b, "  %3d  %-40s complexity %g, needed time %g\n", it.ID, it.Name, d.Complexity, d.NeededTime)
		}
	}
	return b.String(), nil
}

func (s *Server) getResourceSummary(ctx context.Context) (string, error) {
	stats, err := s.db.GetStats(ctx)
	if err != nil {
		return "", err
	}

	summary := fmt.Sprintf(`Income Advisor Summary
======================
Factors:         %d
Regions:         %d
Income methods:  %d
Career paths:    %d
Users:           %d
Saved runs:      %d
`, stats.Factors, stats.Regions, stats.IncomeMethods, stats.CareerPaths, stats.Users, stats.Runs)

	return summary, nil
}
