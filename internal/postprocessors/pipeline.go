// Package postprocessors provides the paragraph pipeline and its stages.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple PostProcessors and runs them in order.
// It implements the PostProcessorPipeline interface.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// BuildPipeline constructs the pipeline named by cfg from the registry.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 {
		return nil, fmt.Errorf("%w: no paragraph processors configured", domain.ErrInvalidInput)
	}
	p := NewPipeline()
	for _, name := range cfg.Processors {
		processor, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		p.Add(processor)
	}
	return p, nil
}

// Process runs the document through all processors in order.
// The first processor receives nil paragraphs and should create them.
// Subsequent processors receive and may modify the paragraphs.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Paragraph, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	var paragraphs []domain.Paragraph

	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		paragraphs, err = processor.Process(ctx, doc, paragraphs)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return paragraphs, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, processor := range p.processors {
		names[i] = processor.Name()
	}
	return names
}
