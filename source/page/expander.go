package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/piprate/json-gold/ld"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/value"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

// ErrExpansion is wrapped by every JSON-LD expansion failure.
var ErrExpansion = errors.New("JSON-LD expansion failed")

// Expander expands JSON-LD blocks into graph documents. It is safe for
// concurrent use; expansions are serialized because the context cache is
// shared.
type Expander struct {
	mu     sync.Mutex
	proc   *ld.JsonLdProcessor
	loader *ld.CachingDocumentLoader
	logger *slog.Logger
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*expanderConfig)

type expanderConfig struct {
	logger        *slog.Logger
	remoteSchema  bool
	extraContexts map[string][]byte
}

// WithExpanderLogger sets the logger.
func WithExpanderLogger(logger *slog.Logger) ExpanderOption {
	return func(c *expanderConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRemoteSchemaContext fetches the Schema.org context over the network
// instead of using the embedded copy.
func WithRemoteSchemaContext(remote bool) ExpanderOption {
	return func(c *expanderConfig) { c.remoteSchema = remote }
}

// WithContextDocument serves doc for contextURL without a network request.
func WithContextDocument(contextURL string, doc []byte) ExpanderOption {
	return func(c *expanderConfig) {
		if c.extraContexts == nil {
			c.extraContexts = make(map[string][]byte)
		}
		c.extraContexts[contextURL] = doc
	}
}

// NewExpander creates an Expander loading remote contexts through client.
// A nil client uses http.DefaultClient.
func NewExpander(client *http.Client, opts ...ExpanderOption) (*Expander, error) {
	cfg := expanderConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if client == nil {
		client = http.DefaultClient
	}

	loader := ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(client))
	if !cfg.remoteSchema {
		for _, u := range schemaorg.ContextURLs {
			if err := preload(loader, u, schemaorg.ContextDocument); err != nil {
				return nil, err
			}
		}
	}
	for u, doc := range cfg.extraContexts {
		if err := preload(loader, u, doc); err != nil {
			return nil, err
		}
	}

	return &Expander{
		proc:   ld.NewJsonLdProcessor(),
		loader: loader,
		logger: cfg.logger,
	}, nil
}

func preload(loader *ld.CachingDocumentLoader, contextURL string, raw []byte) error {
	doc, err := ld.DocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse context %s: %w", contextURL, err)
	}
	loader.AddDocument(contextURL, doc)
	return nil
}

// Expand expands one JSON-LD block resolved against base and returns it as
// a graph document.
func (e *Expander) Expand(ctx context.Context, block, base string) (graph.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input, err := ld.DocumentFromReader(strings.NewReader(block))
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrExpansion, err)
	}

	options := ld.NewJsonLdOptions(base)
	options.DocumentLoader = e.loader

	e.mu.Lock()
	expanded, err := e.proc.Expand(input, options)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpansion, err)
	}

	v, err := value.FromAny(expanded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpansion, err)
	}
	doc, err := graph.DocumentFromValue(v)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("JSON-LD block expanded", "base", base, "objects", len(doc))
	return doc, nil
}

// ExpandAll expands every block on its own against base and skips blocks
// that fail. The returned errors describe the skipped blocks.
func (e *Expander) ExpandAll(ctx context.Context, blocks []string, base string) ([]graph.Document, []error) {
	var (
		docs []graph.Document
		errs []error
	)
	for i, block := range blocks {
		doc, err := e.Expand(ctx, block, base)
		if err != nil {
			if ctx.Err() != nil {
				return docs, append(errs, ctx.Err())
			}
			e.logger.Warn("Skipping JSON-LD block", "index", i, "error", err)
			errs = append(errs, fmt.Errorf("block %d: %w", i, err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}
