package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSetupAppliesDefaultsAndPostsJSON(t *testing.T) {
	t.Parallel()

	var captured []byte
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/setup" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"configured","index":"hnsw","dimension":256,"chunk_size":400,"overlap":40}`))
	}))
	defer server.Close()

	client := New(server.URL+"/", 5*time.Second)
	result, err := client.Setup(context.Background(), SetupRequest{})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if result.Status != "configured" {
		t.Errorf("expected configured status, got %q", result.Status)
	}
	if contentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", contentType)
	}

	var sent map[string]any
	if err := json.Unmarshal(captured, &sent); err != nil {
		t.Fatalf("unmarshal captured body: %v", err)
	}
	if sent["index"] != "hnsw" {
		t.Errorf("expected default index kind, got %v", sent["index"])
	}
	if sent["dimension"] != float64(256) || sent["chunk_size"] != float64(400) || sent["overlap"] != float64(40) {
		t.Errorf("expected gateway defaults in body, got %v", sent)
	}
}

func TestSetupHonorsExplicitZeroOverlap(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		_, _ = w.Write([]byte(`{"status":"configured","index":"hnsw","dimension":256,"chunk_size":400,"overlap":0}`))
	}))
	defer server.Close()

	overlap := 0
	client := New(server.URL, 5*time.Second)
	result, err := client.Setup(context.Background(), SetupRequest{Overlap: &overlap})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if captured["overlap"] != float64(0) {
		t.Errorf("expected explicit zero overlap on the wire, got %v", captured["overlap"])
	}
	if result.Overlap != 0 {
		t.Errorf("expected zero overlap echoed, got %d", result.Overlap)
	}
}

func TestSetupRejectsMismatchedIndexParams(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("validation failure must not reach the gateway")
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	_, err := client.Setup(context.Background(), SetupRequest{
		Index:       IndexHNSW,
		IndexParams: &IndexParams{IVF: &IVFParams{NLists: 4, Iterations: 5}},
	})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if !strings.Contains(err.Error(), "ivf parameters supplied for an hnsw index") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestErrorBodyMessageSurfacesVerbatim(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"index not initialized"}`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	_, err := client.Query(context.Background(), QueryRequest{Question: "capital of France?"})
	if err == nil {
		t.Fatal("expected gateway error")
	}
	if err.Error() != "index not initialized" {
		t.Errorf("expected verbatim gateway message, got %q", err.Error())
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected StatusError with code 500, got %v", err)
	}
}

func TestErrorBodyFallbackToStatusMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	_, err := client.Ingest(context.Background(), []Document{{Name: "a.txt", Content: "x"}})
	if err == nil {
		t.Fatal("expected gateway error")
	}
	if err.Error() != "request failed with status 404" {
		t.Errorf("expected generic status message, got %q", err.Error())
	}
}

func TestUnreachableGatewayWrapsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Ingest(context.Background(), []Document{{Name: "a.txt", Content: "x"}})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestIngestRejectsEmptyBatchLocally(t *testing.T) {
	t.Parallel()

	client := New("http://127.0.0.1:1", time.Second)
	_, err := client.Ingest(context.Background(), nil)
	if err == nil {
		t.Fatal("expected validation error for empty batch")
	}
	if errors.Is(err, ErrUnreachable) {
		t.Errorf("empty batch must fail before any network call, got %v", err)
	}
}

func TestQueryDefaultsAndValidation(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		_, _ = w.Write([]byte(`{"status":"answered","answer":"Paris.","citations":[],"snippets":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)

	if _, err := client.Query(context.Background(), QueryRequest{Question: "   "}); err == nil {
		t.Fatal("expected validation error for blank question")
	}

	result, err := client.Query(context.Background(), QueryRequest{
		Question:  " capital of France? ",
		Retrieval: &RetrievalParams{NProbe: 2},
	})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if result.Answer != "Paris." {
		t.Errorf("unexpected answer: %q", result.Answer)
	}
	if captured["k"] != float64(DefaultQueryK) {
		t.Errorf("expected default k, got %v", captured["k"])
	}
	if captured["question"] != "capital of France?" {
		t.Errorf("expected trimmed question, got %v", captured["question"])
	}
	retrieval, ok := captured["retrieval"].(map[string]any)
	if !ok || retrieval["n_probe"] != float64(2) {
		t.Errorf("expected retrieval params forwarded, got %v", captured["retrieval"])
	}
}

func TestNormalizeBase(t *testing.T) {
	t.Parallel()

	if got := NormalizeBase(""); got != DefaultBase {
		t.Errorf("empty base: got %q", got)
	}
	if got := NormalizeBase(" http://localhost:9000/ "); got != "http://localhost:9000" {
		t.Errorf("trailing slash: got %q", got)
	}
}
