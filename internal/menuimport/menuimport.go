package menuimport

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/libilabs/console/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// ValidationError collects every schema violation found in a menu file.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("menu file invalid: %s", strings.Join(e.Issues, "; "))
}

// File-format shapes. Kept separate from the wire model so the file syntax
// can stay operator-friendly (lowercase keys, optional availability).
type menuFile struct {
	Categories []categoryFile `yaml:"categories"`
}

type categoryFile struct {
	Name  string     `yaml:"name"`
	Items []itemFile `yaml:"items"`
}

type itemFile struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Available   *bool   `yaml:"available"`
	ImageURL    string  `yaml:"imageUrl"`
}

// Load reads and parses a menu file. YAML and JSON are both accepted;
// JSON is a YAML subset, so one decoder covers both.
func Load(path string) (model.Menu, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Menu{}, fmt.Errorf("menuimport: read %s: %w", path, err)
	}
	menu, err := Parse(raw)
	if err != nil {
		return model.Menu{}, fmt.Errorf("menuimport: %s: %w", path, err)
	}
	return menu, nil
}

// Parse validates raw menu file content against the embedded schema and
// returns the normalized menu. All violations are reported together via
// *ValidationError.
func Parse(raw []byte) (model.Menu, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return model.Menu{}, fmt.Errorf("parse: %w", err)
	}

	if issues := validate(doc); len(issues) > 0 {
		return model.Menu{}, &ValidationError{Issues: issues}
	}

	var mf menuFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return model.Menu{}, fmt.Errorf("parse: %w", err)
	}
	return normalize(mf), nil
}

// validate unifies the parsed document with the #Menu definition and
// returns one message per violation.
func validate(doc any) []string {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		// The schema is embedded and tested; a compile failure here is a
		// programming error, not operator input.
		panic(fmt.Sprintf("menuimport: embedded schema invalid: %v", err))
	}

	val := schema.LookupPath(cue.ParsePath("#Menu")).Unify(ctx.Encode(doc))
	err := val.Validate(cue.Concrete(true), cue.Final())
	if err == nil {
		return nil
	}

	var issues []string
	for _, e := range cueerrors.Errors(err) {
		path := strings.Join(e.Path(), ".")
		msg := e.Error()
		if path != "" {
			msg = fmt.Sprintf("%s: %s", path, msg)
		}
		issues = append(issues, msg)
	}
	return issues
}

// normalize converts file shapes to the wire model: NFC names, trimmed
// whitespace, availability defaulting to true when the file omits it.
func normalize(mf menuFile) model.Menu {
	menu := model.Menu{Categories: make([]model.MenuCategory, 0, len(mf.Categories))}
	for _, cat := range mf.Categories {
		out := model.MenuCategory{
			Name:  CleanName(cat.Name),
			Items: make([]model.MenuItem, 0, len(cat.Items)),
		}
		for _, item := range cat.Items {
			available := true
			if item.Available != nil {
				available = *item.Available
			}
			out.Items = append(out.Items, model.MenuItem{
				Name:        CleanName(item.Name),
				Description: strings.TrimSpace(item.Description),
				Price:       item.Price,
				IsAvailable: available,
				ImageURL:    strings.TrimSpace(item.ImageURL),
			})
		}
		menu.Categories = append(menu.Categories, out)
	}
	return menu
}

// ItemCount returns the total number of items across categories, for the
// import preview line.
func ItemCount(menu model.Menu) int {
	n := 0
	for _, cat := range menu.Categories {
		n += len(cat.Items)
	}
	return n
}
