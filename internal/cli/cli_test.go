package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/incomeadvisor/internal/config"
	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
)

func TestDefaultConfigMatchesDefaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, toml.Unmarshal([]byte(defaultConfig), &cfg))

	assert.Equal(t, *config.Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func sampleRuns() []database.RecommendationRun {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []database.RecommendationRun{
		{
			ID:        "run-1",
			Mode:      "self_rating",
			Kind:      "income_method",
			CreatedAt: created,
			Entries: []database.RecommendationEntry{
				{Rank: 1, ItemID: 4, ItemName: "Freelance writing, editing", Score: 7.76},
				{Rank: 2, ItemID: 2, ItemName: "Tutoring", Score: 4.82},
			},
		},
	}
}

func TestExportCSV(t *testing.T) {
	rows := toExportRows("alex", sampleRuns())
	require.Len(t, rows, 2)

	var buf bytes.Buffer
	require.NoError(t, exportCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "run_id", records[0][0])
	assert.Equal(t, []string{"run-1", "alex", "self_rating", "income_method", "2026-03-01T12:00:00Z",
		"1", "4", "Freelance writing, editing", "7.76"}, records[1])
	assert.Equal(t, "4.82", records[2][8])
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, exportJSON(&buf, toExportRows("alex", sampleRuns())))

	var rows []ExportRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "Tutoring", rows[1].ItemName)

	buf.Reset()
	require.NoError(t, exportJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestAskRating(t *testing.T) {
	four := 4.0

	tests := []struct {
		name    string
		input   string
		current *float64
		want    *float64
		wantErr error
		retried bool
	}{
		{name: "valid", input: "7\n", want: floatPtr(7)},
		{name: "retries invalid", input: "abc\n11\n6.5\n", want: floatPtr(6.5), retried: true},
		{name: "blank keeps current", input: "\n", current: &four, want: &four},
		{name: "blank skips", input: "\n"},
		{name: "last line without newline", input: "3", want: floatPtr(3)},
		{name: "quit", input: "q\n", wantErr: errQuit},
		{name: "eof", input: "", wantErr: errQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := newSurveyor(strings.NewReader(tt.input), &out, nil)

			got, err := s.askRating("[1/9] f1_motivation", "How motivated are you?", tt.current)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "How motivated are you?")
			assert.Equal(t, tt.retried, strings.Contains(out.String(), "Please enter a number"))
		})
	}
}

func TestAskImportance(t *testing.T) {
	var out bytes.Buffer
	s := newSurveyor(strings.NewReader("maybe\nvery important\n\nq\n"), &out, nil)

	level, ok, err := s.askImportance("risks", "", factor.ModeratelyImportant)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, factor.VeryImportant, level)
	assert.Contains(t, out.String(), `enter keeps "Moderately important"`)

	level, ok, err = s.askImportance("risks", "", factor.ModeratelyImportant)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, factor.ModeratelyImportant, level)

	_, _, err = s.askImportance("risks", "", 0)
	assert.ErrorIs(t, err, errQuit)
}

func floatPtr(v float64) *float64 { return &v }
