// internal/gateway/types.go
// Package gateway implements the JSON-over-HTTP client for the remote
// RAG gateway's setup, ingest, and query endpoints.
package gateway

import (
	"encoding/json"
	"fmt"
)

// IndexKind identifies the vector index variant the gateway should build.
type IndexKind string

const (
	// IndexHNSW selects the graph-based HNSW index.
	IndexHNSW IndexKind = "hnsw"
	// IndexIVF selects the inverted-file index.
	IndexIVF IndexKind = "ivf"
)

// Gateway-side defaults, mirrored here so one-shot commands and the
// wizard populate the same values the gateway would fall back to.
const (
	DefaultDimension = 256
	DefaultChunkSize = 400
	DefaultOverlap   = 40
	DefaultHNSWEf    = 32
	DefaultIVFNLists = 4
	DefaultIVFIters  = 5
	DefaultQueryK    = 5
)

// HNSWParams holds the tuning parameters accepted by an HNSW index.
type HNSWParams struct {
	Ef int `json:"ef"`
}

// IVFParams holds the tuning parameters accepted by an IVF index.
type IVFParams struct {
	NLists     int `json:"n_lists"`
	Iterations int `json:"iterations"`
}

// IndexParams is a tagged union over the per-kind parameter shapes.
// Exactly one arm must be set, and it must match the request's index kind.
type IndexParams struct {
	HNSW *HNSWParams
	IVF  *IVFParams
}

// MarshalJSON emits the flat parameter object the gateway expects for
// whichever arm is populated.
func (p IndexParams) MarshalJSON() ([]byte, error) {
	switch {
	case p.HNSW != nil && p.IVF != nil:
		return nil, fmt.Errorf("index params: both hnsw and ivf arms set")
	case p.HNSW != nil:
		return json.Marshal(p.HNSW)
	case p.IVF != nil:
		return json.Marshal(p.IVF)
	default:
		return []byte("{}"), nil
	}
}

// matches reports whether the populated arm agrees with kind.
func (p IndexParams) matches(kind IndexKind) error {
	switch kind {
	case IndexHNSW:
		if p.IVF != nil {
			return fmt.Errorf("index params: ivf parameters supplied for an hnsw index")
		}
	case IndexIVF:
		if p.HNSW != nil {
			return fmt.Errorf("index params: hnsw parameters supplied for an ivf index")
		}
	default:
		return fmt.Errorf("unsupported index kind %q", kind)
	}
	return nil
}

// DefaultIndexParams returns the gateway's own fallback parameters for kind.
func DefaultIndexParams(kind IndexKind) IndexParams {
	if kind == IndexIVF {
		return IndexParams{IVF: &IVFParams{NLists: DefaultIVFNLists, Iterations: DefaultIVFIters}}
	}
	return IndexParams{HNSW: &HNSWParams{Ef: DefaultHNSWEf}}
}

// SetupRequest configures the gateway pipeline. Unset fields are
// filled with the gateway defaults before dispatch. Overlap is a
// pointer because an explicit 0 is a valid value the gateway honors;
// only an absent overlap falls back to the default.
type SetupRequest struct {
	Index              IndexKind    `json:"index"`
	Dimension          int          `json:"dimension"`
	ChunkSize          int          `json:"chunk_size"`
	Overlap            *int         `json:"overlap"`
	GeneratorMaxTokens *int         `json:"generator_max_tokens,omitempty"`
	IndexParams        *IndexParams `json:"index_params,omitempty"`
}

// applyDefaults fills unset fields with the gateway's documented defaults.
func (r *SetupRequest) applyDefaults() {
	if r.Index == "" {
		r.Index = IndexHNSW
	}
	if r.Dimension == 0 {
		r.Dimension = DefaultDimension
	}
	if r.ChunkSize == 0 {
		r.ChunkSize = DefaultChunkSize
	}
	if r.Overlap == nil {
		overlap := DefaultOverlap
		r.Overlap = &overlap
	}
}

// Validate checks the request shape before any network traffic, so a
// malformed form never reaches the wire.
func (r SetupRequest) Validate() error {
	if r.Index != IndexHNSW && r.Index != IndexIVF {
		return fmt.Errorf("unsupported index kind %q", r.Index)
	}
	if r.Dimension <= 0 {
		return fmt.Errorf("dimension must be a positive integer")
	}
	if r.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be a positive integer")
	}
	if r.Overlap == nil || *r.Overlap < 0 {
		return fmt.Errorf("overlap must not be negative")
	}
	if r.GeneratorMaxTokens != nil && *r.GeneratorMaxTokens <= 0 {
		return fmt.Errorf("generator_max_tokens must be a positive integer")
	}
	if r.IndexParams != nil {
		if err := r.IndexParams.matches(r.Index); err != nil {
			return err
		}
	}
	return nil
}

// Document is one ingestible text source.
type Document struct {
	Name     string            `json:"name"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// IngestRequest wraps the document batch for POST /ingest.
type IngestRequest struct {
	Documents []Document `json:"documents"`
}

// RetrievalParams carries optional retrieval tuning for a query.
type RetrievalParams struct {
	NProbe int `json:"n_probe"`
}

// QueryRequest asks the gateway a question over the ingested corpus.
type QueryRequest struct {
	Question  string           `json:"question"`
	K         int              `json:"k"`
	Retrieval *RetrievalParams `json:"retrieval,omitempty"`
}

// Validate checks the query locally before dispatch.
func (r QueryRequest) Validate() error {
	if r.Question == "" {
		return fmt.Errorf("question must not be empty")
	}
	if r.K <= 0 {
		return fmt.Errorf("k must be a positive integer")
	}
	if r.Retrieval != nil && r.Retrieval.NProbe <= 0 {
		return fmt.Errorf("n_probe must be a positive integer")
	}
	return nil
}

// SetupResult echoes the configuration the gateway applied.
type SetupResult struct {
	Status             string          `json:"status"`
	Index              string          `json:"index"`
	Dimension          int             `json:"dimension"`
	ChunkSize          int             `json:"chunk_size"`
	Overlap            int             `json:"overlap"`
	IndexParams        json.RawMessage `json:"index_params,omitempty"`
	GeneratorMaxTokens *int            `json:"generator_max_tokens,omitempty"`
}

// DocumentSummary describes one ingested document.
type DocumentSummary struct {
	Name     string            `json:"name"`
	Chunks   int               `json:"chunks"`
	Metadata map[string]string `json:"metadata"`
}

// IngestResult summarizes an ingest batch.
type IngestResult struct {
	Status     string              `json:"status"`
	Chunks     int                 `json:"chunks"`
	Documents  []DocumentSummary   `json:"documents"`
	Duplicates map[string][]string `json:"duplicates,omitempty"`
}

// Citation references a source the generated answer drew from.
type Citation struct {
	Source string  `json:"source"`
	Text   string  `json:"text,omitempty"`
	Score  float64 `json:"score"`
}

// Snippet is one retrieved context fragment.
type Snippet struct {
	Source   string            `json:"source,omitempty"`
	Content  string            `json:"content,omitempty"`
	Text     string            `json:"text,omitempty"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// QueryResult is the gateway's answer to one question.
type QueryResult struct {
	Answer    string     `json:"answer"`
	Status    string     `json:"status"`
	Citations []Citation `json:"citations"`
	Snippets  []Snippet  `json:"snippets"`
}
