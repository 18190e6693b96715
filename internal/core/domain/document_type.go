package domain

// DocumentType is the closed set of document categories used to select
// a field-extraction pattern set.
type DocumentType string

// Document types. The zero value means "no type given".
const (
	DocumentTypeLegal        DocumentType = "juridico"
	DocumentTypeFiscal       DocumentType = "fiscal"
	DocumentTypeBanking      DocumentType = "bancario"
	DocumentTypeUnclassified DocumentType = "nao_identificado"
)

// ClassifiedTypes returns the types probed during classification, in
// precedence order. Legal is probed before fiscal before banking.
func ClassifiedTypes() []DocumentType {
	return []DocumentType{DocumentTypeLegal, DocumentTypeFiscal, DocumentTypeBanking}
}

// IsValid returns true if the type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeLegal, DocumentTypeFiscal, DocumentTypeBanking, DocumentTypeUnclassified:
		return true
	default:
		return false
	}
}

// IsClassified returns true for every valid type except unclassified.
func (t DocumentType) IsClassified() bool {
	return t.IsValid() && t != DocumentTypeUnclassified
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// Label returns the value written to the tipo_documento column.
func (t DocumentType) Label() string {
	switch t {
	case DocumentTypeLegal:
		return "Juridico"
	case DocumentTypeFiscal:
		return "Fiscal"
	case DocumentTypeBanking:
		return "Bancario"
	case DocumentTypeUnclassified:
		return "Não identificado"
	default:
		return unknownDescription
	}
}

// Description returns a human-readable description of the type.
func (t DocumentType) Description() string {
	switch t {
	case DocumentTypeLegal:
		return "Legal (processes, petitions, appeals)"
	case DocumentTypeFiscal:
		return "Fiscal (invoices, tax receipts)"
	case DocumentTypeBanking:
		return "Banking (statements, receipts, payslips)"
	case DocumentTypeUnclassified:
		return "Unclassified"
	default:
		return unknownDescription
	}
}

// ParseDocumentType accepts either the type key or its English alias.
func ParseDocumentType(s string) (DocumentType, bool) {
	switch s {
	case "juridico", "legal":
		return DocumentTypeLegal, true
	case "fiscal":
		return DocumentTypeFiscal, true
	case "bancario", "banking":
		return DocumentTypeBanking, true
	case "nao_identificado", "unclassified":
		return DocumentTypeUnclassified, true
	default:
		return "", false
	}
}
