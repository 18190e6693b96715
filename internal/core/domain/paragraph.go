package domain

// ParagraphKind classifies a segmented block of text.
type ParagraphKind string

// Paragraph kinds, in classification priority order.
const (
	// ParagraphHeading starts with a section marker (TÍTULO, CAPÍTULO, SEÇÃO) and a numeral.
	ParagraphHeading ParagraphKind = "heading"

	// ParagraphArticle references a legal article ("art. 5º", "artigo 12").
	ParagraphArticle ParagraphKind = "article"

	// ParagraphEmphasis contains a ** bold marker.
	ParagraphEmphasis ParagraphKind = "emphasis"

	// ParagraphNormal is the default kind.
	ParagraphNormal ParagraphKind = "normal"
)

// IsValid returns true if the kind is recognised.
func (k ParagraphKind) IsValid() bool {
	switch k {
	case ParagraphHeading, ParagraphArticle, ParagraphEmphasis, ParagraphNormal:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ParagraphKind) String() string {
	return string(k)
}

// Paragraph is one classified block of text produced by segmentation.
// Paragraphs are values; a segmented list keeps source order.
type Paragraph struct {
	Text string        `json:"text"`
	Kind ParagraphKind `json:"kind"`
}
