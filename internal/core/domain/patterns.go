package domain

import (
	"fmt"
	"regexp"
)

// Well-known field and column names.
const (
	// FieldDocumentType holds the type-detection pattern and the type label column.
	FieldDocumentType = "tipo_documento"

	// FieldOriginalText holds the text excerpt of an unclassified document.
	FieldOriginalText = "texto_original"

	// ColumnSourcePath is the batch table column holding the document path.
	ColumnSourcePath = "caminho_documento"
)

// FieldPattern extracts one named field.
type FieldPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// TypePatterns holds the detection pattern and ordered field patterns of one type.
type TypePatterns struct {
	Type   DocumentType
	Detect *regexp.Regexp
	Fields []FieldPattern
}

// PatternSet is the static extraction configuration: one entry per classified
// type, kept in classification precedence order.
type PatternSet struct {
	types []TypePatterns
}

// NewPatternSet builds a pattern set. Entries are reordered to follow
// ClassifiedTypes; duplicates and unclassified entries are rejected.
func NewPatternSet(entries ...TypePatterns) (*PatternSet, error) {
	byType := make(map[DocumentType]TypePatterns, len(entries))
	for _, e := range entries {
		if !e.Type.IsClassified() {
			return nil, fmt.Errorf("%w: pattern type %q", ErrInvalidInput, e.Type)
		}
		if e.Detect == nil {
			return nil, fmt.Errorf("%w: type %s has no %s pattern", ErrInvalidInput, e.Type, FieldDocumentType)
		}
		if _, dup := byType[e.Type]; dup {
			return nil, fmt.Errorf("%w: duplicate pattern type %q", ErrInvalidInput, e.Type)
		}
		byType[e.Type] = e
	}

	set := &PatternSet{}
	for _, t := range ClassifiedTypes() {
		if e, ok := byType[t]; ok {
			set.types = append(set.types, e)
		}
	}
	return set, nil
}

// Types returns the configured types in precedence order.
func (p *PatternSet) Types() []TypePatterns {
	return p.types
}

// Lookup returns the patterns for a type.
func (p *PatternSet) Lookup(t DocumentType) (TypePatterns, bool) {
	for _, e := range p.types {
		if e.Type == t {
			return e, true
		}
	}
	return TypePatterns{}, false
}

// CompilePattern compiles a field or detection pattern case-insensitively.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %w", ErrInvalidInput, expr, err)
	}
	return re, nil
}

// Default pattern expressions, keyed by type then field, in field order.
var defaultPatterns = []struct {
	typ    DocumentType
	detect string
	fields [][2]string
}{
	{
		typ:    DocumentTypeLegal,
		detect: `\b(PROCESSO|PETIÇÃO|RECURSO|AÇÃO)\b`,
		fields: [][2]string{
			{"numero_processo", `\b(?:PROCESSO|PROTOCOLO)\s*(?:N[º°o]?\.?)?\s*(\d{4,20})\b`},
			{"data_documento", `\b(\d{1,2}/\d{1,2}/\d{2,4})\b`},
			{"valor_causa", `\bVALOR\s*(?:DA\s*CAUSA)?\s*:?\s*(?:R\$)?\s*(\d+(?:\.\d{3})*,\d{2})\b`},
		},
	},
	{
		typ:    DocumentTypeFiscal,
		detect: `\b(NOTA FISCAL|CUPOM FISCAL|NFe)\b`,
		fields: [][2]string{
			{"numero_documento", `\b(?:NFe|Nota Fiscal)\s*(?:N[º°o]?\.?)?\s*(\d{6,12})\b`},
			{"cnpj", `\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`},
			{"data_emissao", `\b(\d{1,2}/\d{1,2}/\d{2,4})\b`},
			{"valor_total", `\bVALOR\s*(?:TOTAL)?\s*:?\s*(?:R\$)?\s*(\d+(?:\.\d{3})*,\d{2})\b`},
			{"tipo_pagamento", `\b(BOLETO|PIX|TRANSFERÊNCIA|CARTÃO)\b`},
		},
	},
	{
		typ:    DocumentTypeBanking,
		detect: `\b(EXTRATO|COMPROVANTE|CONTRACHEQUE)\b`,
		fields: [][2]string{
			{"conta", `\bCONTA\s*(?:N[º°o]?\.?)?\s*:?\s*(\d{6,10})\b`},
			{"agencia", `\bAG[ÊE]NCIA\s*(?:N[º°o]?\.?)?\s*:?\s*(\d{4})\b`},
			{"data_lancamento", `\b(\d{1,2}/\d{1,2}/\d{2,4})\b`},
			{"valor_lancamento", `\bVALOR\s*:?\s*(?:R\$)?\s*(\d+(?:\.\d{3})*,\d{2})\b`},
			{"tipo_lancamento", `\b(CRÉDITO|DÉBITO|TRANSFERÊNCIA|PAGAMENTO)\b`},
		},
	},
}

// DefaultPatternExpressions returns the built-in expressions as
// type -> ordered (field, expression) pairs. The detection pattern is
// listed first under FieldDocumentType.
func DefaultPatternExpressions() map[DocumentType][][2]string {
	out := make(map[DocumentType][][2]string, len(defaultPatterns))
	for _, d := range defaultPatterns {
		fields := make([][2]string, 0, len(d.fields)+1)
		fields = append(fields, [2]string{FieldDocumentType, d.detect})
		fields = append(fields, d.fields...)
		out[d.typ] = fields
	}
	return out
}

// DefaultPatternSet returns the built-in legal, fiscal and banking patterns.
func DefaultPatternSet() *PatternSet {
	entries := make([]TypePatterns, 0, len(defaultPatterns))
	for _, d := range defaultPatterns {
		entry := TypePatterns{
			Type:   d.typ,
			Detect: regexp.MustCompile("(?i)" + d.detect),
		}
		for _, f := range d.fields {
			entry.Fields = append(entry.Fields, FieldPattern{
				Name:    f[0],
				Pattern: regexp.MustCompile("(?i)" + f[1]),
			})
		}
		entries = append(entries, entry)
	}
	set, err := NewPatternSet(entries...)
	if err != nil {
		panic(err)
	}
	return set
}
