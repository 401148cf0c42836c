// Package gateway wires C1-C7 into a single running process: it builds
// the vault client, the caches, the discovery engine, the tool
// registry, the resource router, and the JSON-RPC front-end, then
// serves them over HTTP until told to stop.
package gateway

import "github.com/zach-snell/obsidian-go-mcp/internal/config"

// Option is a functional option for configuring the gateway.
type Option func(*application)

type application struct {
	config *config.Config
}

// WithConfig sets the gateway's configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}
