package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/incomeadvisor/internal/advisor"
	"github.com/vijay-prabhu/incomeadvisor/internal/content"
	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

var (
	// barWidth is the number of cells a 0..10 criterion bar spans
	barWidth = scoring.MaxScoreStars
	// params derives complexity and needed time for displayed items
	params = scoring.DefaultParams()
)

// SetBarWidth changes the width of criterion bars in item details
func SetBarWidth(n int) {
	if n > 0 {
		barWidth = n
	}
}

// SetParams sets the formula constants used to derive displayed factors
func SetParams(p scoring.Params) {
	params = p
}

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case *advisor.Result:
		return recommendationsTable(w, v)
	case *advisor.Explanation:
		return explanationDetail(w, v)
	case []factor.Factor:
		return factorsTable(w, v)
	case []database.Region:
		return regionsTable(w, v)
	case []scoring.Item:
		return itemsTable(w, v)
	case *scoring.Item:
		return itemDetail(w, v)
	case *database.User:
		return userDetail(w, v)
	case []database.RecommendationRun:
		return runsTable(w, v)
	case *database.RecommendationRun:
		return runDetail(w, v)
	case *database.Stats:
		return statsTable(w, v)
	case *content.SeedReport:
		return seedReport(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func render(w io.Writer, header []string, rows [][]string) error {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}

	table := tablewriter.NewWriter(w)
	table.Header(cells...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func recommendationsTable(w io.Writer, r *advisor.Result) error {
	if len(r.Recommendations) == 0 {
		fmt.Fprintf(w, "No recommendations for %s (%s). Answer the survey first.\n", r.Handle, r.Mode)
		return nil
	}

	fmt.Fprintf(w, "Top %s recommendations for %s (%s)\n", kindLabel(r.Kind), r.Handle, r.Mode)

	rows := make([][]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		rows = append(rows, []string{
			strconv.Itoa(rec.Rank),
			truncate(rec.Item.Name, 40),
			formatFloat(rec.Score),
			formatFloat(rec.Derived.Complexity),
			formatFloat(rec.Derived.NeededTime),
		})
	}
	if err := render(w, []string{"RANK", "NAME", "SCORE", "COMPLEXITY", "NEEDED TIME"}, rows); err != nil {
		return err
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "%d criteria or weights could not be matched to a factor and scored zero.\n", len(r.Warnings))
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "Saved as run %s\n", r.RunID)
	}
	return nil
}

func explanationDetail(w io.Writer, e *advisor.Explanation) error {
	b := e.Breakdown

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "%s for %s (%s)\n", e.Item.Name, e.Handle, b.Mode)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for _, t := range b.Terms {
		fmt.Fprintf(w, "  %-44s %10s\n", t.Label, formatFloat(t.Value))
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "  %-44s %10s\n", "sum", strconv.FormatFloat(b.Sum, 'f', 2, 64))
	if b.Divisor != 1 {
		fmt.Fprintf(w, "  %-44s %10s\n", "divided by", formatFloat(b.Divisor))
	}
	fmt.Fprintf(w, "  %-44s %10s\n", "score", formatFloat(b.Score))

	if b.Derived != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Complexity:   %s\n", formatFloat(b.Derived.Complexity))
		fmt.Fprintf(w, "Needed time:  %s\n", formatFloat(b.Derived.NeededTime))
	}
	if len(b.Unmatched) > 0 {
		fmt.Fprintf(w, "\nUnmatched criteria: %s\n", strings.Join(b.Unmatched, ", "))
	}
	return nil
}

func factorsTable(w io.Writer, factors []factor.Factor) error {
	if len(factors) == 0 {
		fmt.Fprintln(w, "No factors found. Run 'incomeadvisor seed' first.")
		return nil
	}

	rows := make([][]string, 0, len(factors))
	for _, f := range factors {
		rows = append(rows, []string{strconv.Itoa(f.ID), f.Name, string(f.Kind), truncate(f.Prompt, 50)})
	}
	return render(w, []string{"ID", "NAME", "KIND", "PROMPT"}, rows)
}

func regionsTable(w io.Writer, regions []database.Region) error {
	if len(regions) == 0 {
		fmt.Fprintln(w, "No regions found. Run 'incomeadvisor seed' first.")
		return nil
	}

	rows := make([][]string, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []string{strconv.Itoa(r.ID), r.Name, formatFloat(r.F10Value)})
	}
	return render(w, []string{"ID", "REGION", "F10"}, rows)
}

func itemsTable(w io.Writer, items []scoring.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No catalog items found. Run 'incomeadvisor seed' first.")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		d := scoring.CalculateDerived(it, params)
		rows = append(rows, []string{
			strconv.Itoa(it.ID),
			truncate(it.Name, 40),
			formatFloat(d.Complexity),
			formatFloat(d.NeededTime),
			truncate(it.Description, 40),
		})
	}
	return render(w, []string{"ID", "NAME", "COMPLEXITY", "NEEDED TIME", "DESCRIPTION"}, rows)
}

func itemDetail(w io.Writer, it *scoring.Item) error {
	fmt.Fprintf(w, "%s  (#%d, %s)\n", it.Name, it.ID, kindLabel(it.Kind))
	if it.Description != "" {
		fmt.Fprintln(w, wordWrap(it.Description, 78))
	}
	fmt.Fprintln(w)

	for _, name := range it.CriterionNames() {
		v := it.Criteria[name]
		if name == scoring.HoursToMaster {
			fmt.Fprintf(w, "  %-28s %d hours\n", name, v)
			continue
		}
		fmt.Fprintf(w, "  %-28s %s %2d\n", name, bar(v*barWidth/scoring.MaxScoreStars, barWidth), v)
	}

	d := scoring.CalculateDerived(*it, params)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Complexity:   %s\n", formatFloat(d.Complexity))
	fmt.Fprintf(w, "Needed time:  %s\n", formatFloat(d.NeededTime))
	return nil
}

func userDetail(w io.Writer, u *database.User) error {
	fmt.Fprintf(w, "Handle:      %s\n", u.Handle)
	fmt.Fprintf(w, "Income:      %d\n", u.CurrentIncome)
	if u.RegionID != nil {
		fmt.Fprintf(w, "Region:      #%d\n", *u.RegionID)
	} else {
		fmt.Fprintln(w, "Region:      (not set)")
	}
	fmt.Fprintf(w, "Created:     %s\n", u.CreatedAt.Format("Jan 02, 2006"))
	fmt.Fprintf(w, "Answered:    %d of %d factors\n", u.Answers.Answered(), len(factor.Direct()))
	fmt.Fprintln(w)

	for _, name := range factor.Direct() {
		v := u.Answers.Get(name)
		if v == nil {
			fmt.Fprintf(w, "  %-28s %s\n", name, "-")
			continue
		}
		fmt.Fprintf(w, "  %-28s %s %s\n", name, bar(int(*v+0.5), int(factor.MaxRating)), formatFloat(*v))
	}
	return nil
}

func runsTable(w io.Writer, runs []database.RecommendationRun) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No saved recommendations.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		top, score := "", ""
		if len(r.Entries) > 0 {
			top = truncate(r.Entries[0].ItemName, 30)
			score = formatFloat(r.Entries[0].Score)
		}
		rows = append(rows, []string{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.Mode,
			r.Kind,
			strconv.Itoa(len(r.Entries)),
			top,
			score,
		})
	}
	return render(w, []string{"DATE", "MODE", "KIND", "ITEMS", "TOP ITEM", "SCORE"}, rows)
}

func runDetail(w io.Writer, r *database.RecommendationRun) error {
	fmt.Fprintf(w, "Run %s\n", r.ID)
	fmt.Fprintf(w, "%s, %s, %s\n\n", r.CreatedAt.Format("Jan 02 2006 15:04"), r.Mode, kindLabel(scoring.Kind(r.Kind)))

	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			strconv.Itoa(e.ItemID),
			truncate(e.ItemName, 40),
			formatFloat(e.Score),
		})
	}
	return render(w, []string{"#", "ID", "NAME", "SCORE"}, rows)
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Store Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Factors:                %d\n", s.Factors)
	fmt.Fprintf(w, "Regions:                %d\n", s.Regions)
	fmt.Fprintf(w, "Income methods:         %d\n", s.IncomeMethods)
	fmt.Fprintf(w, "Career paths:           %d\n", s.CareerPaths)
	fmt.Fprintf(w, "Users:                  %d\n", s.Users)
	fmt.Fprintf(w, "Saved runs:             %d\n", s.Runs)
	fmt.Fprintf(w, "Schema version:         %d\n", s.SchemaVersion)
	return nil
}

func seedReport(w io.Writer, r *content.SeedReport) error {
	fmt.Fprintf(w, "Seeded %d factors, %d regions, %d income methods, %d career paths\n",
		r.Factors, r.Regions, r.IncomeMethods, r.CareerPaths)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped (already populated): %s\n", strings.Join(r.Skipped, ", "))
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

func kindLabel(k scoring.Kind) string {
	switch k {
	case scoring.KindIncomeMethod:
		return "income method"
	case scoring.KindCareerPath:
		return "career path"
	default:
		return string(k)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// bar renders n out of max as a fixed width gauge
func bar(n, max int) string {
	if n < 0 {
		n = 0
	}
	if n > max {
		n = max
	}
	return strings.Repeat("#", n) + strings.Repeat(".", max-n)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// wordWrap wraps text at the specified width
func wordWrap(text string, width int) string {
	var result strings.Builder
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
		result.WriteString("\n")
	}
	return strings.TrimSuffix(result.String(), "\n")
}
