package demotools

import (
	"github.com/jtuffin/starmcp/mcp"
	"github.com/jtuffin/starmcp/prompts"
	"github.com/jtuffin/starmcp/resources"
	"github.com/jtuffin/starmcp/tools"
)

// Register wires the full demo capability set into a server: four tools, four
// resources and two prompts, all sharing one store and metrics set.
func Register(s *mcp.Server, store *Store) error {
	m := NewMetrics()

	for _, t := range []tools.Tool{
		NewWeatherTool(m),
		NewCalculateTool(m),
		NewStoreDataTool(store, m),
		NewRetrieveDataTool(store, m),
	} {
		if err := s.RegisterTool(t); err != nil {
			return err
		}
	}

	for _, r := range []*resources.Resource{
		NewSettingsResource(s.Name(), s.Version()),
		NewMetricsResource(m, store),
		NewDatabaseResource(store),
		NewEntryResource(store),
	} {
		if err := s.RegisterResource(r); err != nil {
			return err
		}
	}

	for _, p := range []*prompts.Prompt{
		NewWeatherPrompt(),
		NewDataInsightsPrompt(),
	} {
		if err := s.RegisterPrompt(p); err != nil {
			return err
		}
	}

	return nil
}
