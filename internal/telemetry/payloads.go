package telemetry

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
)

var payloadSeq atomic.Int64

// PayloadTransport saves request and response bodies under
// <artifacts>/payloads when payload persistence is enabled. Files are named
// after the cycle ID in the request context.
type PayloadTransport struct {
	Base   http.RoundTripper
	Vendor string
}

func (t *PayloadTransport) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}
	return t.Base
}

func (t *PayloadTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !PersistPayloadsEnabled() {
		return t.base().RoundTrip(req)
	}

	cycleID, ok := CycleIDFromContext(req.Context())
	if !ok {
		cycleID = "no-cycle"
	}
	prefix := fmt.Sprintf("%s-%s-%03d", cycleID, t.Vendor, payloadSeq.Add(1))

	if req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			b, _ := io.ReadAll(body)
			body.Close()
			writePayload(prefix+"-request.json", b)
		}
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil || resp.Body == nil {
		return resp, err
	}
	b, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	resp.Body = io.NopCloser(bytes.NewReader(b))
	writePayload(prefix+"-response.json", b)
	return resp, nil
}

func writePayload(name string, b []byte) {
	dir := filepath.Join(ArtifactsDir(), "payloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
	}
}
