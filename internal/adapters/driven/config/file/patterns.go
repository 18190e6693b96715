package file

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.PatternLoader = (*PatternLoader)(nil)

// patternFile is the YAML shape of a pattern table.
//
//	types:
//	  - type: fiscal
//	    detect: '\b(NOTA FISCAL|NFe)\b'
//	    fields:
//	      - name: cnpj
//	        pattern: '\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b'
type patternFile struct {
	Types []patternType `yaml:"types"`
}

type patternType struct {
	Type   string         `yaml:"type"`
	Detect string         `yaml:"detect"`
	Fields []patternField `yaml:"fields"`
}

type patternField struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// PatternLoader reads field-extraction patterns from a YAML file.
// Types listed in the file replace the built-in entry for that type; types
// not listed keep their built-in patterns.
type PatternLoader struct {
	path string
}

// NewPatternLoader creates a loader for path. An empty path loads the
// built-in table.
func NewPatternLoader(path string) *PatternLoader {
	return &PatternLoader{path: path}
}

// Path returns the pattern file path.
func (l *PatternLoader) Path() string {
	return l.path
}

// Load returns the pattern set.
func (l *PatternLoader) Load() (*domain.PatternSet, error) {
	if l.path == "" {
		return domain.DefaultPatternSet(), nil
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("pattern file %s: %w", l.path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	return ParsePatterns(data)
}

// ParsePatterns builds a pattern set from YAML, falling back to the
// built-in entry for every type the document does not mention.
func ParsePatterns(data []byte) (*domain.PatternSet, error) {
	var pf patternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("%w: parse pattern file: %w", domain.ErrInvalidInput, err)
	}

	overrides := make(map[domain.DocumentType]domain.TypePatterns, len(pf.Types))
	for _, pt := range pf.Types {
		entry, err := pt.compile()
		if err != nil {
			return nil, err
		}
		if _, dup := overrides[entry.Type]; dup {
			return nil, fmt.Errorf("%w: duplicate pattern type %q", domain.ErrInvalidInput, entry.Type)
		}
		overrides[entry.Type] = entry
	}

	entries := make([]domain.TypePatterns, 0, len(domain.ClassifiedTypes()))
	for _, t := range domain.ClassifiedTypes() {
		if entry, ok := overrides[t]; ok {
			entries = append(entries, entry)
			continue
		}
		if entry, ok := domain.DefaultPatternSet().Lookup(t); ok {
			entries = append(entries, entry)
		}
	}
	return domain.NewPatternSet(entries...)
}

func (pt patternType) compile() (domain.TypePatterns, error) {
	t, ok := domain.ParseDocumentType(pt.Type)
	if !ok || !t.IsClassified() {
		return domain.TypePatterns{}, fmt.Errorf("%w: pattern type %q", domain.ErrInvalidInput, pt.Type)
	}
	if pt.Detect == "" {
		return domain.TypePatterns{}, fmt.Errorf("%w: type %s has no detect pattern", domain.ErrInvalidInput, t)
	}

	detect, err := domain.CompilePattern(pt.Detect)
	if err != nil {
		return domain.TypePatterns{}, err
	}
	entry := domain.TypePatterns{Type: t, Detect: detect}
	for _, f := range pt.Fields {
		if f.Name == "" {
			return domain.TypePatterns{}, fmt.Errorf("%w: unnamed field in type %s", domain.ErrInvalidInput, t)
		}
		re, err := domain.CompilePattern(f.Pattern)
		if err != nil {
			return domain.TypePatterns{}, err
		}
		entry.Fields = append(entry.Fields, domain.FieldPattern{Name: f.Name, Pattern: re})
	}
	return entry, nil
}

// MarshalDefaultPatterns renders the built-in table as YAML, ready to be
// edited and passed back through extraction.patterns_file.
func MarshalDefaultPatterns() ([]byte, error) {
	exprs := domain.DefaultPatternExpressions()
	var pf patternFile
	for _, t := range domain.ClassifiedTypes() {
		fields := exprs[t]
		pt := patternType{Type: t.String()}
		for _, f := range fields {
			if f[0] == domain.FieldDocumentType {
				pt.Detect = f[1]
				continue
			}
			pt.Fields = append(pt.Fields, patternField{Name: f[0], Pattern: f[1]})
		}
		pf.Types = append(pf.Types, pt)
	}
	return yaml.Marshal(&pf)
}
