// Package content loads catalog content files: factors, regions, income methods and career paths.
package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
	"github.com/vijay-prabhu/incomeadvisor/internal/logger"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

//go:embed data/*.json
var dataFS embed.FS

// Content file names
const (
	FactorsFile       = "factors.json"
	RegionsFile       = "regions.json"
	IncomeMethodsFile = "income_methods.json"
	CareerPathsFile   = "career_paths.json"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FactorDoc is a factor entry of factors.json
type FactorDoc struct {
	ID     int    `json:"id" validate:"min=1"`
	Name   string `json:"name" validate:"required"`
	Prompt string `json:"prompt"`
	Kind   string `json:"kind" validate:"oneof=context preference"`
}

// RegionDoc is a region entry of regions.json
type RegionDoc struct {
	Name     string   `json:"name" validate:"required"`
	F10Value *float64 `json:"f10_value" validate:"required,gte=0,lte=10"`
}

// ItemDoc is an entry of income_methods.json or career_paths.json
type ItemDoc struct {
	ID          int            `json:"id" validate:"min=1"`
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Criteria    map[string]int `json:"criteria" validate:"required,dive,keys,required,endkeys,gte=0"`
}

// Bundle is the full set of content ready to be seeded
type Bundle struct {
	Factors       []factor.Factor
	Regions       []RegionDoc
	IncomeMethods []scoring.Item
	CareerPaths   []scoring.Item
}

// Items returns the catalog items of a kind
func (b *Bundle) Items(kind scoring.Kind) []scoring.Item {
	if kind == scoring.KindCareerPath {
		return b.CareerPaths
	}
	return b.IncomeMethods
}

// Loader reads content files from a filesystem
type Loader struct {
	fsys fs.FS
	log  logger.Logger
}

// NewLoader reads content from fsys
func NewLoader(fsys fs.FS, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{fsys: fsys, log: log}
}

// Embedded returns a Loader over the content shipped with the binary
func Embedded(log logger.Logger) *Loader {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(err)
	}
	return NewLoader(sub, log)
}

// FromDir returns a Loader over a directory, or the embedded content when dir is empty
func FromDir(dir string, log logger.Logger) *Loader {
	if dir == "" {
		return Embedded(log)
	}
	return NewLoader(os.DirFS(dir), log)
}

// Load reads, validates and converts every content file.
// A missing file contributes nothing; an invalid file is an error.
func (l *Loader) Load() (*Bundle, error) {
	var errs []error
	b := &Bundle{}

	var factorDocs []FactorDoc
	if err := l.readFile(FactorsFile, "factors.schema.json", &factorDocs); err != nil {
		errs = append(errs, err)
	}
	for _, d := range factorDocs {
		b.Factors = append(b.Factors, factor.Factor{ID: d.ID, Name: d.Name, Prompt: d.Prompt, Kind: factor.Kind(d.Kind)})
	}
	if err := factor.NewCatalog(b.Factors).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", FactorsFile, err))
	}
	for _, f := range b.Factors {
		if f.Kind == factor.KindPreference && !scoring.Weighable(f.Name) {
			errs = append(errs, fmt.Errorf("%s: preference factor %q is not on the 0..10 scale", FactorsFile, f.Name))
		}
	}

	if err := l.readFile(RegionsFile, "regions.schema.json", &b.Regions); err != nil {
		errs = append(errs, err)
	}

	items, err := l.readItems(IncomeMethodsFile, scoring.KindIncomeMethod)
	if err != nil {
		errs = append(errs, err)
	}
	b.IncomeMethods = items

	items, err = l.readItems(CareerPathsFile, scoring.KindCareerPath)
	if err != nil {
		errs = append(errs, err)
	}
	b.CareerPaths = items

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return b, nil
}

func (l *Loader) readFile(name, schema string, out interface{}) error {
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Warn("content file not found, skipping", map[string]interface{}{"file": name})
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := validateSchema(schema, name, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	switch docs := out.(type) {
	case *[]FactorDoc:
		return validateDocs(name, *docs)
	case *[]RegionDoc:
		return validateDocs(name, *docs)
	case *[]ItemDoc:
		return validateDocs(name, *docs)
	}
	return nil
}

func validateDocs[T any](file string, docs []T) error {
	var errs []error
	for i := range docs {
		if err := validate.Struct(docs[i]); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", file, i, err))
		}
	}
	return errors.Join(errs...)
}

func (l *Loader) readItems(file string, kind scoring.Kind) ([]scoring.Item, error) {
	var docs []ItemDoc
	if err := l.readFile(file, "items.schema.json", &docs); err != nil {
		return nil, err
	}

	var errs []error
	seen := make(map[int]bool)
	items := make([]scoring.Item, 0, len(docs))
	for _, d := range docs {
		if seen[d.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %d", file, d.ID))
		}
		seen[d.ID] = true

		for name, v := range d.Criteria {
			if !scoring.IsCriterion(kind, name) {
				errs = append(errs, fmt.Errorf("%s: %q has unknown criterion %q for %s", file, d.Name, name, kind))
				continue
			}
			if lo, hi := scoring.CriterionRange(name); v < lo || v > hi {
				errs = append(errs, fmt.Errorf("%s: %q criterion %s=%d outside [%d, %d]", file, d.Name, name, v, lo, hi))
			}
		}

		items = append(items, scoring.Item{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Kind:        kind,
			Criteria:    d.Criteria,
		})
	}
	return items, errors.Join(errs...)
}

// JoinWarnings lists criteria that no preference factor matches by name.
// They contribute nothing in preference scoring and usually indicate an authoring mistake.
func (b *Bundle) JoinWarnings() []string {
	catalog := factor.NewCatalog(b.Factors)
	var warnings []string
	for _, kind := range []scoring.Kind{scoring.KindIncomeMethod, scoring.KindCareerPath} {
		var names []string
		for _, it := range b.Items(kind) {
			for _, name := range it.CriterionNames() {
				if scoring.Weighable(name) {
					names = append(names, name)
				}
			}
		}
		for _, missing := range catalog.CheckJoin(names) {
			warnings = append(warnings, fmt.Sprintf("%s criterion %q has no preference factor", kind, missing))
		}
	}
	return warnings
}
