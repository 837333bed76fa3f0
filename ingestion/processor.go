package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/poiesic/vestige/ai"
	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/storage"
)

// Processed is the outcome of running an agent over a document.
type Processed struct {
	Response *ai.Response
	Output   *core.Output
	Document *core.Document // the new version holding the agent result
}

// Process runs the named agent over the document with the given digest.
// It stores the agent result as an output of the source document and as a
// new document of type processed that points back at its parent.
func (p *Pipeline) Process(ctx context.Context, digest core.Digest, agentName string, params map[string]string) (*Processed, error) {
	agent, ok := p.provider.Agent(agentName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ai.ErrUnknownAgent, agentName)
	}

	doc, err := p.documents.GetDocument(ctx, digest)
	if err != nil {
		return nil, err
	}

	req := ai.Request{Content: doc.Body, Parameters: params}
	if parent := doc.Metadata[core.MetaParentVersion]; parent != "" {
		if orig, err := p.documents.GetDocument(ctx, core.Digest(parent)); err == nil {
			req.Original = orig.Body
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := agent.Process(ctx, req)
	if err != nil {
		p.metrics.AgentRequest(agentName, ai.StatusError, time.Since(start))
		return nil, fmt.Errorf("%s: %w", agentName, err)
	}
	p.metrics.AgentRequest(agentName, resp.Status, time.Since(start))
	if resp.Status != ai.StatusSuccess {
		return nil, fmt.Errorf("%w: %s: %s", ErrAgentFailed, agentName, resp.Feedback)
	}

	confidence := strconv.FormatFloat(resp.Confidence, 'f', -1, 64)
	output, err := p.outputs.AddOutput(ctx, &core.Output{
		Digest:  doc.Digest,
		Type:    agentName,
		Content: resp.Result,
		Metadata: map[string]string{
			"feedback":          resp.Feedback,
			"model":             resp.ModelName,
			core.MetaConfidence: confidence,
		},
		Timestamp: resp.ProcessedAt,
	})
	if err != nil {
		return nil, err
	}
	p.metrics.OutputStored(agentName)

	meta := map[string]string{
		core.MetaType:          core.TypeProcessed,
		core.MetaAgent:         agentName,
		core.MetaParentVersion: doc.Digest.String(),
		core.MetaConfidence:    confidence,
	}
	for k, v := range params {
		meta[core.MetaParamPrefix+k] = v
	}
	processed, err := p.store(ctx, Item{
		URL:      doc.URL,
		Title:    doc.Title,
		Body:     resp.Result,
		Metadata: meta,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("processed document",
		"digest", doc.Digest.Short(),
		"agent", agentName,
		"result", processed.Digest.Short())
	return &Processed{Response: resp, Output: output, Document: processed}, nil
}

// Submit queues Process on the agent pool. Errors are logged, not returned;
// use Wait to block until queued work is done.
func (p *Pipeline) Submit(ctx context.Context, digest core.Digest, agentName string, params map[string]string) error {
	p.pending.Add(1)
	err := p.agentPool.Submit(func() {
		defer p.pending.Done()
		if _, err := p.Process(ctx, digest, agentName, params); err != nil {
			p.logger.Error("error processing document", "digest", digest.Short(), "agent", agentName, "err", err)
		}
	})
	if err != nil {
		p.pending.Done()
		return err
	}
	return nil
}
