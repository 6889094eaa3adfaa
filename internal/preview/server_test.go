package preview

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/turhancan97/paper-ready-architecture/pkg/config"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	coord := newTestCoordinator()
	t.Cleanup(coord.Close)

	srv := NewServer(coord, config.Default(), nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetConfig(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/config")
	if err != nil {
		t.Fatalf("GET /config: %v", err)
	}
	defer resp.Body.Close()

	var cfg config.Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Network.InputNeurons != 3 {
		t.Errorf("input neurons = %d, want 3", cfg.Network.InputNeurons)
	}
}

func TestPutConfigAcceptsValid(t *testing.T) {
	srv, ts := newTestServer(t)

	cfg := config.Default()
	cfg.Network.InputNeurons = 6
	body, _ := json.Marshal(cfg)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/config", bytes.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /config: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202", resp.StatusCode)
	}
	if got := srv.config().Network.InputNeurons; got != 6 {
		t.Errorf("server config not updated: input = %d", got)
	}
}

func TestPutConfigRejectsInvalid(t *testing.T) {
	srv, ts := newTestServer(t)

	cfg := config.Default()
	cfg.Network.InputNeurons = 0
	body, _ := json.Marshal(cfg)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/config", bytes.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /config: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload["code"] != "INVALID_STRUCTURE" {
		t.Errorf("error code = %q, want INVALID_STRUCTURE", payload["code"])
	}

	// Last valid config is retained.
	if got := srv.config().Network.InputNeurons; got != 3 {
		t.Errorf("server config changed on invalid PUT: input = %d", got)
	}
}

func TestPutConfigRejectsMalformedJSON(t *testing.T) {
	_, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/config", bytes.NewReader([]byte("{not json")))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /config: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// Exercises the config read/write paths from concurrent requests; run
// with -race to catch unguarded access to the shared configuration.
func TestConcurrentConfigAccess(t *testing.T) {
	_, ts := newTestServer(t)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func(input int) {
			defer wg.Done()
			cfg := config.Default()
			cfg.Network.InputNeurons = input
			body, _ := json.Marshal(cfg)
			for i := 0; i < 10; i++ {
				req, _ := http.NewRequest(http.MethodPut, ts.URL+"/config", bytes.NewReader(body))
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					t.Errorf("PUT /config: %v", err)
					return
				}
				resp.Body.Close()
			}
		}(g + 1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				resp, err := http.Get(ts.URL + "/config")
				if err != nil {
					t.Errorf("GET /config: %v", err)
					return
				}
				var cfg config.Config
				if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
					t.Errorf("decode: %v", err)
				}
				resp.Body.Close()
				if err := cfg.Validate(); err != nil {
					t.Errorf("observed torn config: %v", err)
				}
			}
		}()
	}
	wg.Wait()
}

func TestSchematicSVG(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/schematic.svg")
	if err != nil {
		t.Fatalf("GET /schematic.svg: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("<svg")) {
		t.Errorf("body is not SVG:\n%.120s", buf.String())
	}
}

func TestPreviewPNG(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/preview.png")
	if err != nil {
		t.Fatalf("GET /preview.png: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}

	var sig [8]byte
	if _, err := resp.Body.Read(sig[:]); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !bytes.Equal(sig[:4], []byte("\x89PNG")) {
		t.Errorf("body does not start with PNG signature: %q", sig)
	}
}
