package telemetry

import (
	"os"
)

var (
	debugModeEnabled       bool
	observeEnabled         bool
	persistPayloadsEnabled bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect.
	debugModeEnabled = os.Getenv("GW_DEBUG") == "1"

	// Observe: default to 1 when debug=1 and GW_OBSERVE_JSON is unset; honour explicit 0/1.
	if v, ok := os.LookupEnv("GW_OBSERVE_JSON"); ok {
		observeEnabled = (v == "1")
	} else {
		observeEnabled = debugModeEnabled
	}

	// Persist payloads: default to 1 when debug=1 and GW_PERSIST_API_PAYLOADS is unset; honour explicit 0/1.
	if v, ok := os.LookupEnv("GW_PERSIST_API_PAYLOADS"); ok {
		persistPayloadsEnabled = (v == "1")
	} else {
		persistPayloadsEnabled = debugModeEnabled
	}
}

// DebugModeEnabled reports whether debug mode was enabled at startup.
func DebugModeEnabled() bool { return debugModeEnabled }

// ObserveEnabled reports whether JSONL emission was enabled at startup, considering debug defaults.
func ObserveEnabled() bool {
	// Preserve startup-evaluated default, but allow tests to enable mid-run via env override.
	if os.Getenv("GW_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// PersistPayloadsEnabled reports whether request and response payload persistence was enabled at startup.
func PersistPayloadsEnabled() bool {
	if os.Getenv("GW_PERSIST_API_PAYLOADS") == "1" {
		return true
	}
	return persistPayloadsEnabled
}
