package domain

import (
	"errors"
	"strings"
)

// FailureKind classifies why a document could not be processed.
type FailureKind string

// Failure kinds.
const (
	FailureOCRLowQuality      FailureKind = "ocr_low_quality"
	FailureIncomplete         FailureKind = "incomplete_document"
	FailureUnsupportedFormat  FailureKind = "unsupported_format"
	FailureMetadataExtraction FailureKind = "metadata_extraction_failure"
	FailureNetwork            FailureKind = "network_error"
	FailureValidation         FailureKind = "validation_error"
)

// String returns the string representation.
func (k FailureKind) String() string {
	return string(k)
}

// RecoveryAction is a suggested way to recover from a failure.
type RecoveryAction struct {
	Action string
	Steps  []string
}

// Recovery returns the suggested recovery for the failure kind.
func (k FailureKind) Recovery() RecoveryAction {
	switch k {
	case FailureOCRLowQuality:
		return RecoveryAction{
			Action: "Reprocessar com pré-processamento de imagem",
			Steps:  []string{"Aumentar contraste", "Aplicar filtro de nitidez", "Remover ruído"},
		}
	case FailureNetwork:
		return RecoveryAction{
			Action: "Tentar novamente",
			Steps:  []string{"Verificar conexão de internet", "Aguardar e tentar novamente", "Verificar serviços online"},
		}
	case FailureUnsupportedFormat:
		return RecoveryAction{
			Action: "Converter documento",
			Steps:  []string{"Converter para PDF", "Verificar formato de origem", "Usar ferramentas de conversão"},
		}
	case FailureIncomplete:
		return RecoveryAction{
			Action: "Verificar documento",
			Steps: []string{
				"Verificar se o documento está corrompido",
				"Tentar obter uma cópia completa",
				"Usar software de reparo de PDF",
			},
		}
	case FailureValidation:
		return RecoveryAction{
			Action: "Corrigir dados",
			Steps:  []string{"Verificar formato dos dados", "Corrigir inconsistências", "Ajustar parâmetros de validação"},
		}
	default:
		return RecoveryAction{
			Action: "Revisão manual",
			Steps:  []string{"Verificar documento original", "Realizar extração manual", "Documentar problema"},
		}
	}
}

var failureSubstrings = []struct {
	kind  FailureKind
	parts []string
}{
	{FailureOCRLowQuality, []string{"low resolution", "insufficient quality"}},
	{FailureNetwork, []string{"network", "connection"}},
	{FailureUnsupportedFormat, []string{"unsupported format", "not a pdf"}},
	{FailureIncomplete, []string{"incomplete", "corrupt"}},
	{FailureValidation, []string{"validation", "invalid data"}},
}

// ClassifyFailure maps an error to a failure kind. Sentinel errors are
// checked first, then the lower-cased message.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureMetadataExtraction
	case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrNotPDF):
		return FailureUnsupportedFormat
	case errors.Is(err, ErrTextTooShort):
		return FailureOCRLowQuality
	case errors.Is(err, ErrInvalidRecord):
		return FailureValidation
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range failureSubstrings {
		for _, part := range rule.parts {
			if strings.Contains(msg, part) {
				return rule.kind
			}
		}
	}
	return FailureMetadataExtraction
}
