package database

import (
	"database/sql"
	"time"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
)

// User is a person receiving recommendations
type User struct {
	ID            string               `json:"id"`
	Handle        string               `json:"handle"`
	CurrentIncome int                  `json:"current_income"`
	RegionID      *int                 `json:"region_id,omitempty"`
	Answers       factor.DirectAnswers `json:"answers"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Region supplies the regional factor F10
type Region struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	F10Value float64 `json:"f10_value"`
}

// RecommendationRun is a saved ranked list shown to a user
type RecommendationRun struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	Mode      string                `json:"mode"`
	Kind      string                `json:"kind"`
	CreatedAt time.Time             `json:"created_at"`
	Entries   []RecommendationEntry `json:"entries"`
}

// RecommendationEntry is one line of a saved run
type RecommendationEntry struct {
	Rank     int     `json:"rank"`
	ItemID   int     `json:"item_id"`
	ItemName string  `json:"item_name"`
	Score    float64 `json:"score"`
}

// Stats summarises the content of the store
type Stats struct {
	Factors       int `json:"factors"`
	Regions       int `json:"regions"`
	IncomeMethods int `json:"income_methods"`
	CareerPaths   int `json:"career_paths"`
	Users         int `json:"users"`
	Runs          int `json:"runs"`
	SchemaVersion int `json:"schema_version"`
}

// answerColumns maps direct factors to their users-table columns, in scan order
var answerColumns = factor.Direct()

// NullFloat64 is a helper to convert *float64 to sql.NullFloat64
func NullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// Float64Ptr converts sql.NullFloat64 to *float64
func Float64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

// NullInt is a helper to convert *int to sql.NullInt64
func NullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// IntPtr converts sql.NullInt64 to *int
func IntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
