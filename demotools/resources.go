package demotools

import (
	"context"
	"fmt"
	"time"

	"github.com/jtuffin/starmcp/resources"
)

// NewSettingsResource exposes the server's static configuration at
// config://settings.
func NewSettingsResource(serverName, version string) *resources.Resource {
	return resources.MustNew("config://settings", "Server configuration settings",
		func(ctx context.Context, req resources.ReadRequest) (any, error) {
			return map[string]any{
				"server_name": serverName,
				"version":     version,
				"features": map[string]bool{
					"weather":    true,
					"calculator": true,
					"database":   true,
				},
			}, nil
		})
}

// NewMetricsResource exposes request counters at metrics://stats.
func NewMetricsResource(m *Metrics, store *Store) *resources.Resource {
	return resources.MustNew("metrics://stats", "Server metrics and statistics",
		func(ctx context.Context, req resources.ReadRequest) (any, error) {
			return map[string]any{
				"total_requests": m.Requests.Load(),
				"total_errors":   m.Errors.Load(),
				"error_rate":     m.ErrorRate(),
				"database_size":  store.Len(),
				"timestamp":      time.Now().UTC().Format(time.RFC3339),
			}, nil
		})
}

// NewDatabaseResource exposes the whole store at data://database.
func NewDatabaseResource(store *Store) *resources.Resource {
	return resources.MustNew("data://database", "Current database contents",
		func(ctx context.Context, req resources.ReadRequest) (any, error) {
			return map[string]any{
				"size": store.Len(),
				"keys": store.Keys(),
				"data": store.Snapshot(),
			}, nil
		})
}

// NewEntryResource exposes individual entries under the db://{key} template.
// The key extracted from the request URI selects the entry.
func NewEntryResource(store *Store) *resources.Resource {
	return resources.MustNew("db://{key}", "One database entry by key",
		func(ctx context.Context, req resources.ReadRequest) (any, error) {
			key := req.Vars["key"]
			entry, ok := store.Get(key)
			if !ok {
				return nil, fmt.Errorf("key not found: %s", key)
			}
			return entry, nil
		})
}
