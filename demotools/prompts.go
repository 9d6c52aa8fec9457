package demotools

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/jtuffin/starmcp/prompts"
)

// NewWeatherPrompt creates the analyze_weather prompt template.
func NewWeatherPrompt() *prompts.Prompt {
	return prompts.MustNew("analyze_weather", "Generate weather analysis prompt",
		func(ctx context.Context, promptArgs map[string]any) (string, error) {
			location := cast.ToString(promptArgs["location"])
			if location == "" {
				location = "unknown location"
			}
			return fmt.Sprintf(`Analyze the weather conditions for %s. Consider the following aspects:
1. Current temperature and how it compares to seasonal averages
2. Precipitation likelihood and type
3. Wind conditions and their impact on outdoor activities
4. Air quality and visibility
5. Recommendations for appropriate clothing and activities

Provide a comprehensive analysis that would be helpful for someone planning their day.`, location), nil
		})
}

// NewDataInsightsPrompt creates the data_insights prompt template.
func NewDataInsightsPrompt() *prompts.Prompt {
	return prompts.MustNew("data_insights", "Generate data insights prompt",
		func(ctx context.Context, promptArgs map[string]any) (string, error) {
			keys := cast.ToStringSlice(promptArgs["keys"])
			return fmt.Sprintf(`Analyze the stored data with keys: %s. Provide insights on:
1. Data patterns and trends
2. Potential relationships between different data points
3. Anomalies or outliers
4. Recommendations for data organization
5. Suggestions for additional data that might be valuable

Focus on actionable insights that could improve data utilization.`, strings.Join(keys, ", ")), nil
		})
}
