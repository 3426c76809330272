package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Answer the factor survey interactively",
}

var surveyFactorsCmd = &cobra.Command{
	Use:   "factors <handle>",
	Short: "Rate yourself 0..10 on each context factor (F1..F9)",
	Long: `Walk through the directly answered context factors and rate each from
0 to 10. Press enter to keep the current answer, or type 'q' to stop early.
Answers given so far are saved either way.

F10 comes from your region and F11/F12 are computed per item.`,
	Args: cobra.ExactArgs(1),
	RunE: runSurveyFactors,
}

var surveyPreferencesCmd = &cobra.Command{
	Use:   "preferences <handle>",
	Short: "Choose how important each item criterion is to you",
	Long: `Walk through the preference factors and choose an importance level:

  1  Doesn't matter
  2  Slightly important
  3  Moderately important
  4  Important
  5  Very important

A level can be typed as its number or its label. Press enter to skip a factor,
or type 'q' to stop early.`,
	Args: cobra.ExactArgs(1),
	RunE: runSurveyPreferences,
}

func init() {
	rootCmd.AddCommand(surveyCmd)
	surveyCmd.AddCommand(surveyFactorsCmd)
	surveyCmd.AddCommand(surveyPreferencesCmd)
}

// errQuit is returned by prompts when the user types q
var errQuit = errors.New("survey stopped")

// surveyor reads answers line by line
type surveyor struct {
	in   *bufio.Reader
	out  io.Writer
	term *Terminal
}

func newSurveyor(in io.Reader, out io.Writer, t *Terminal) *surveyor {
	return &surveyor{in: bufio.NewReader(in), out: out, term: t}
}

// readLine returns the next trimmed line. io.EOF ends the survey like q.
func (s *surveyor) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errQuit
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "q") {
		return "", errQuit
	}
	return line, nil
}

// askRating prompts until a 0..10 rating or an empty line is entered
func (s *surveyor) askRating(label, prompt string, current *float64) (*float64, error) {
	for {
		fmt.Fprintf(s.out, "%s\n", s.term.Color(ColorCyan, label))
		if prompt != "" {
			fmt.Fprintf(s.out, "  %s\n", prompt)
		}
		if current != nil {
			fmt.Fprintf(s.out, "  [0-10, enter keeps %g] > ", *current)
		} else {
			fmt.Fprint(s.out, "  [0-10, enter skips] > ")
		}

		line, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			return current, nil
		}

		v, err := strconv.ParseFloat(line, 64)
		if err != nil || v < factor.MinRating || v > factor.MaxRating {
			fmt.Fprintln(s.out, s.term.Color(ColorRed, "  Please enter a number from 0 to 10."))
			continue
		}
		return &v, nil
	}
}

// askImportance prompts until a level or an empty line is entered. ok is false when skipped.
func (s *surveyor) askImportance(label, prompt string, current factor.Importance) (factor.Importance, bool, error) {
	for {
		fmt.Fprintf(s.out, "%s\n", s.term.Color(ColorCyan, label))
		if prompt != "" {
			fmt.Fprintf(s.out, "  %s\n", prompt)
		}
		if current.Valid() {
			fmt.Fprintf(s.out, "  [1-5, enter keeps %q] > ", current.String())
		} else {
			fmt.Fprint(s.out, "  [1-5, enter skips] > ")
		}

		line, err := s.readLine()
		if err != nil {
			return 0, false, err
		}
		if line == "" {
			return current, false, nil
		}

		level, err := factor.ParseImportance(line)
		if err != nil {
			fmt.Fprintln(s.out, s.term.Color(ColorRed, "  "+err.Error()))
			continue
		}
		return level, true, nil
	}
}

func runSurveyFactors(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}

	prompts, err := factorPrompts(ctx, a)
	if err != nil {
		return err
	}

	s := newSurveyor(cmd.InOrStdin(), cmd.OutOrStdout(), NewTerminal())
	names := factor.Direct()
	stopped := false
	for i, name := range names {
		label := fmt.Sprintf("[%d/%d] %s", i+1, len(names), name)
		v, err := s.askRating(label, prompts[string(name)], u.Answers.Get(name))
		if errors.Is(err, errQuit) {
			stopped = true
			break
		}
		if err != nil {
			return err
		}
		if v != nil {
			if err := u.Answers.Set(name, *v); err != nil {
				return err
			}
		}
	}

	if err := a.db.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("failed to save answers: %w", err)
	}

	fmt.Fprintln(s.out)
	if stopped {
		fmt.Fprintln(s.out, "Survey stopped.")
	}
	fmt.Fprintf(s.out, "Saved %d of %d answers for %s.\n", u.Answers.Answered(), len(names), u.Handle)
	if u.RegionID == nil {
		fmt.Fprintln(s.out, s.term.Color(ColorYellow, "No region set: F10 counts as 0. Use 'incomeadvisor user set-region'."))
	}
	return nil
}

func runSurveyPreferences(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}

	catalog, err := a.db.FactorCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load factors: %w", err)
	}
	prefs := catalog.Preferences()
	if len(prefs) == 0 {
		return fmt.Errorf("no preference factors found, run 'incomeadvisor seed' first")
	}

	weights, err := a.db.GetPreferences(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	s := newSurveyor(cmd.InOrStdin(), cmd.OutOrStdout(), NewTerminal())
	for _, level := range factor.Levels() {
		fmt.Fprintln(s.out, s.term.Color(ColorGray, fmt.Sprintf("  %d  %s", int(level), level)))
	}
	fmt.Fprintln(s.out)

	changed := 0
	for i, f := range prefs {
		label := fmt.Sprintf("[%d/%d] %s", i+1, len(prefs), f.Name)
		level, ok, err := s.askImportance(label, f.Prompt, weights[f.ID])
		if errors.Is(err, errQuit) {
			fmt.Fprintln(s.out, "\nSurvey stopped.")
			break
		}
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := a.db.SetPreference(ctx, u.ID, f.ID, level); err != nil {
			return fmt.Errorf("failed to save %s: %w", f.Name, err)
		}
		changed++
	}

	fmt.Fprintf(s.out, "\nSaved %d preference levels for %s.\n", changed, u.Handle)
	return nil
}

// factorPrompts maps factor names to their survey question
func factorPrompts(ctx context.Context, a *app) (map[string]string, error) {
	factors, err := a.db.ListFactors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load factors: %w", err)
	}
	prompts := make(map[string]string, len(factors))
	for _, f := range factors {
		prompts[f.Name] = f.Prompt
	}
	return prompts, nil
}
