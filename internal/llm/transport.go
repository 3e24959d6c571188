package llm

import (
	"net/http"

	"github.com/petasbytes/ghostwriter/internal/telemetry"
)

// withPayloadTransport returns a copy of hc whose transport records request
// and response bodies when payload persistence is enabled.
func withPayloadTransport(hc *http.Client, v Vendor) *http.Client {
	if hc == nil {
		hc = &http.Client{}
	}
	c := *hc
	c.Transport = &telemetry.PayloadTransport{Base: hc.Transport, Vendor: string(v)}
	return &c
}
