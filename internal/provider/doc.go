// Package provider builds vendor API clients and holds per-vendor
// defaults (models, base URLs, API key environment variables).
package provider
