package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"unsupported sentinel", fmt.Errorf("open x.xyz: %w", ErrUnsupportedType), FailureUnsupportedFormat},
		{"not a pdf sentinel", ErrNotPDF, FailureUnsupportedFormat},
		{"short text sentinel", fmt.Errorf("scan.pdf: %w", ErrTextTooShort), FailureOCRLowQuality},
		{"invalid record sentinel", ErrInvalidRecord, FailureValidation},
		{"low resolution", errors.New("image has Low Resolution"), FailureOCRLowQuality},
		{"network", errors.New("dial tcp: connection refused"), FailureNetwork},
		{"format text", errors.New("unsupported format: .odt"), FailureUnsupportedFormat},
		{"corrupt", errors.New("xref table corrupt"), FailureIncomplete},
		{"validation", errors.New("validation failed for field"), FailureValidation},
		{"fallback", errors.New("boom"), FailureMetadataExtraction},
		{"nil", nil, FailureMetadataExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

func TestFailureKind_Recovery(t *testing.T) {
	kinds := []FailureKind{
		FailureOCRLowQuality, FailureIncomplete, FailureUnsupportedFormat,
		FailureMetadataExtraction, FailureNetwork, FailureValidation,
	}
	for _, k := range kinds {
		r := k.Recovery()
		assert.NotEmpty(t, r.Action, k.String())
		assert.Len(t, r.Steps, 3, k.String())
	}

	assert.Equal(t, "Tentar novamente", FailureNetwork.Recovery().Action)
	assert.Equal(t, "Revisão manual", FailureMetadataExtraction.Recovery().Action)
}
