package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

// Factors

// InsertFactor inserts or replaces a factor definition
func InsertFactor(ctx context.Context, ex Execer, f factor.Factor) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO factors (id, name, prompt, kind) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, prompt = excluded.prompt, kind = excluded.kind
	`, f.ID, f.Name, f.Prompt, f.Kind)
	return err
}

// ListFactors returns the factor catalog ordered by id
func (db *DB) ListFactors(ctx context.Context) ([]factor.Factor, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, prompt, kind FROM factors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var factors []factor.Factor
	for rows.Next() {
		var f factor.Factor
		if err := rows.Scan(&f.ID, &f.Name, &f.Prompt, &f.Kind); err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return factors, rows.Err()
}

// FactorCatalog loads the factor catalog index
func (db *DB) FactorCatalog(ctx context.Context) (*factor.Catalog, error) {
	factors, err := db.ListFactors(ctx)
	if err != nil {
		return nil, err
	}
	return factor.NewCatalog(factors), nil
}

// Regions

// InsertRegion inserts a region and sets its ID
func InsertRegion(ctx context.Context, ex Execer, r *Region) error {
	result, err := ex.ExecContext(ctx, `INSERT INTO regions (name, f10_value) VALUES (?, ?)`, r.Name, r.F10Value)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = int(id)
	return nil
}

// GetRegion retrieves a region by ID
func (db *DB) GetRegion(ctx context.Context, id int) (*Region, error) {
	r := &Region{}
	err := db.QueryRowContext(ctx, `SELECT id, name, f10_value FROM regions WHERE id = ?`, id).
		Scan(&r.ID, &r.Name, &r.F10Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRegionByName retrieves a region by name (case-insensitive)
func (db *DB) GetRegionByName(ctx context.Context, name string) (*Region, error) {
	r := &Region{}
	err := db.QueryRowContext(ctx, `SELECT id, name, f10_value FROM regions WHERE LOWER(name) = LOWER(?)`, name).
		Scan(&r.ID, &r.Name, &r.F10Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRegions returns all regions ordered by name
func (db *DB) ListRegions(ctx context.Context) ([]Region, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, f10_value FROM regions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []Region
	for rows.Next() {
		var r Region
		if err := rows.Scan(&r.ID, &r.Name, &r.F10Value); err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// Users

func userColumns() string {
	cols := []string{"id", "handle", "current_income", "region_id"}
	for _, name := range answerColumns {
		cols = append(cols, string(name))
	}
	return strings.Join(append(cols, "created_at", "updated_at"), ", ")
}

func answerArgs(a *factor.DirectAnswers) []interface{} {
	args := make([]interface{}, 0, len(answerColumns))
	for _, name := range answerColumns {
		args = append(args, NullFloat64(a.Get(name)))
	}
	return args
}

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	u := &User{}
	var regionID sql.NullInt64
	answers := make([]sql.NullFloat64, len(answerColumns))

	dest := []interface{}{&u.ID, &u.Handle, &u.CurrentIncome, &regionID}
	for i := range answers {
		dest = append(dest, &answers[i])
	}
	dest = append(dest, &u.CreatedAt, &u.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	u.RegionID = IntPtr(regionID)
	for i, name := range answerColumns {
		if v := Float64Ptr(answers[i]); v != nil {
			if err := u.Answers.Set(name, *v); err != nil {
				return nil, fmt.Errorf("user %s: %w", u.Handle, err)
			}
		}
	}
	return u, nil
}

// CreateUser inserts a new user
func (db *DB) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 6+len(answerColumns)), ", ")
	args := []interface{}{u.ID, u.Handle, u.CurrentIncome, NullInt(u.RegionID)}
	args = append(args, answerArgs(&u.Answers)...)
	args = append(args, u.CreatedAt, u.UpdatedAt)

	_, err := db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO users (%s) VALUES (%s)`, userColumns(), placeholders),
		args...,
	)
	return err
}

// GetUser retrieves a user by ID
func (db *DB) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE id = ?`, userColumns()), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// GetUserByHandle retrieves a user by handle (case-insensitive)
func (db *DB) GetUserByHandle(ctx context.Context, handle string) (*User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(handle) = LOWER(?)`, userColumns()), handle))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", handle, err)
	}
	return u, nil
}

// UpdateUser updates income, region and factor answers
func (db *DB) UpdateUser(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()

	sets := []string{"current_income = ?", "region_id = ?"}
	for _, name := range answerColumns {
		sets = append(sets, string(name)+" = ?")
	}
	sets = append(sets, "updated_at = ?")

	args := []interface{}{u.CurrentIncome, NullInt(u.RegionID)}
	args = append(args, answerArgs(&u.Answers)...)
	args = append(args, u.UpdatedAt, u.ID)

	result, err := db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s WHERE id = ?`, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user not found: %s", u.ID)
	}
	return nil
}

// Catalog

// InsertItem inserts a catalog item together with its criteria
func InsertItem(ctx context.Context, ex Execer, item scoring.Item) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO catalog_items (kind, id, name, description) VALUES (?, ?, ?, ?)
	`, item.Kind, item.ID, item.Name, item.Description)
	if err != nil {
		return fmt.Errorf("insert %s %q: %w", item.Kind, item.Name, err)
	}

	for _, name := range item.CriterionNames() {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO item_criteria (kind, item_id, criterion, score) VALUES (?, ?, ?, ?)
		`, item.Kind, item.ID, name, item.Criteria[name])
		if err != nil {
			return fmt.Errorf("insert criterion %s of %q: %w", name, item.Name, err)
		}
	}
	return nil
}

// ListItems returns every item of a kind with criteria populated, ordered by id
func (db *DB) ListItems(ctx context.Context, kind scoring.Kind) ([]scoring.Item, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT ci.id, ci.name, ci.description, ic.criterion, ic.score
		FROM catalog_items ci
		LEFT JOIN item_criteria ic ON ic.kind = ci.kind AND ic.item_id = ci.id
		WHERE ci.kind = ?
		ORDER BY ci.id, ic.criterion
	`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []scoring.Item
	index := make(map[int]int)
	for rows.Next() {
		var (
			id                int
			name, description string
			criterion         sql.NullString
			score             sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &description, &criterion, &score); err != nil {
			return nil, err
		}

		i, ok := index[id]
		if !ok {
			items = append(items, scoring.Item{
				ID:          id,
				Name:        name,
				Description: description,
				Kind:        kind,
				Criteria:    make(map[string]int),
			})
			i = len(items) - 1
			index[id] = i
		}
		if criterion.Valid && score.Valid {
			items[i].Criteria[criterion.String] = int(score.Int64)
		}
	}
	return items, rows.Err()
}

// GetItem retrieves one catalog item, or nil when absent
func (db *DB) GetItem(ctx context.Context, kind scoring.Kind, id int) (*scoring.Item, error) {
	item := &scoring.Item{ID: id, Kind: kind, Criteria: make(map[string]int)}
	err := db.QueryRowContext(ctx, `
		SELECT name, description FROM catalog_items WHERE kind = ? AND id = ?
	`, kind, id).Scan(&item.Name, &item.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT criterion, score FROM item_criteria WHERE kind = ? AND item_id = ?
	`, kind, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var score int
		if err := rows.Scan(&name, &score); err != nil {
			return nil, err
		}
		item.Criteria[name] = score
	}
	return item, rows.Err()
}

// Preferences

// SetPreference stores a user's importance level for a factor, replacing any previous level
func (db *DB) SetPreference(ctx context.Context, userID string, factorID int, level factor.Importance) error {
	if !level.Valid() {
		return fmt.Errorf("importance must be between %d and %d, got %d", factor.MinImportance, factor.MaxImportance, level)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, factor_id, importance, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, factor_id) DO UPDATE SET importance = excluded.importance, updated_at = excluded.updated_at
	`, userID, factorID, int(level), time.Now())
	return err
}

// GetPreferences returns a user's importance weights keyed by factor id
func (db *DB) GetPreferences(ctx context.Context, userID string) (scoring.Weights, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT factor_id, importance FROM user_preferences WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := make(scoring.Weights)
	for rows.Next() {
		var id, level int
		if err := rows.Scan(&id, &level); err != nil {
			return nil, err
		}
		weights[id] = factor.Importance(level)
	}
	return weights, rows.Err()
}

// ClearPreferences removes every importance level of a user
func (db *DB) ClearPreferences(ctx context.Context, userID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = ?`, userID)
	return err
}

// Recommendation runs

// SaveRun stores a recommendation run and its entries
func (db *DB) SaveRun(ctx context.Context, run *RecommendationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recommendation_runs (id, user_id, mode, kind, created_at) VALUES (?, ?, ?, ?, ?)
		`, run.ID, run.UserID, run.Mode, run.Kind, run.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, e := range run.Entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO recommendation_entries (run_id, rank, item_id, item_name, score) VALUES (?, ?, ?, ?, ?)
			`, run.ID, e.Rank, e.ItemID, e.ItemName, e.Score)
			if err != nil {
				return fmt.Errorf("insert entry %d: %w", e.Rank, err)
			}
		}
		return nil
	})
}

// ListRuns returns a user's runs, newest first, entries included
func (db *DB) ListRuns(ctx context.Context, userID string, limit int) ([]RecommendationRun, error) {
	query := `
		SELECT id, user_id, mode, kind, created_at FROM recommendation_runs
		WHERE user_id = ? ORDER BY created_at DESC, rowid DESC
	`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var runs []RecommendationRun
	for rows.Next() {
		var r RecommendationRun
		if err := rows.Scan(&r.ID, &r.UserID, &r.Mode, &r.Kind, &r.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		entries, err := db.runEntries(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Entries = entries
	}
	return runs, nil
}

// LatestRun returns a user's most recent run, or nil when there is none
func (db *DB) LatestRun(ctx context.Context, userID string) (*RecommendationRun, error) {
	runs, err := db.ListRuns(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (db *DB) runEntries(ctx context.Context, runID string) ([]RecommendationEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT rank, item_id, item_name, score FROM recommendation_entries
		WHERE run_id = ? ORDER BY rank
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RecommendationEntry
	for rows.Next() {
		var e RecommendationEntry
		if err := rows.Scan(&e.Rank, &e.ItemID, &e.ItemName, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats

// CountRows returns the number of rows in a seedable table
func CountRows(ctx context.Context, ex Execer, table string) (int, error) {
	switch table {
	case "factors", "regions", "users", "recommendation_runs":
	default:
		return 0, fmt.Errorf("count: unsupported table %q", table)
	}
	var n int
	err := ex.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

// CountItems returns the number of catalog items of a kind
func CountItems(ctx context.Context, ex Execer, kind scoring.Kind) (int, error) {
	var n int
	err := ex.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items WHERE kind = ?`, kind).Scan(&n)
	return n, err
}

// GetStats summarises the store contents
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	counts := []struct {
		table string
		dest  *int
	}{
		{"factors", &s.Factors},
		{"regions", &s.Regions},
		{"users", &s.Users},
		{"recommendation_runs", &s.Runs},
	}
	for _, c := range counts {
		n, err := CountRows(ctx, db, c.table)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	var err error
	if s.IncomeMethods, err = CountItems(ctx, db, scoring.KindIncomeMethod); err != nil {
		return nil, err
	}
	if s.CareerPaths, err = CountItems(ctx, db, scoring.KindCareerPath); err != nil {
		return nil, err
	}
	if s.SchemaVersion, err = db.SchemaVersion(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
