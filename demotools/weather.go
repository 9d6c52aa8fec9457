package demotools

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/jtuffin/starmcp/tools"
)

// WeatherParams are the arguments for the get_weather tool.
type WeatherParams struct {
	Location string `json:"location"`
}

// LocationDetails breaks a location down into its parts.
type LocationDetails struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// WeatherReport is a mock weather observation.
type WeatherReport struct {
	Location        string          `json:"location"`
	LocationDetails LocationDetails `json:"location_details"`
	Temperature     string          `json:"temperature"`
	Condition       string          `json:"condition"`
	Humidity        string          `json:"humidity"`
	Wind            string          `json:"wind"`
	Timestamp       string          `json:"timestamp"`
}

var zipToCity = map[string]LocationDetails{
	"10001": {City: "New York", State: "NY", Country: "USA"},
	"94102": {City: "San Francisco", State: "CA", Country: "USA"},
	"90210": {City: "Beverly Hills", State: "CA", Country: "USA"},
	"60601": {City: "Chicago", State: "IL", Country: "USA"},
	"02134": {City: "Boston", State: "MA", Country: "USA"},
	"98101": {City: "Seattle", State: "WA", Country: "USA"},
}

var weatherConditions = []string{"Sunny", "Cloudy", "Rainy", "Partly Cloudy", "Stormy"}

// NewWeatherTool creates a tool that produces mock weather for a location.
// The report is a deterministic function of the location string, so repeated
// calls for the same place agree.
func NewWeatherTool(m *Metrics) tools.Tool {
	handler := func(ctx context.Context, params WeatherParams) (WeatherReport, error) {
		m.Requests.Add(1)

		display, details := resolveLocation(params.Location)
		seed := locationSeed(params.Location)

		return WeatherReport{
			Location:        display,
			LocationDetails: details,
			Temperature:     fmt.Sprintf("%d°F", 50+int(seed%46)),
			Condition:       weatherConditions[seed%uint64(len(weatherConditions))],
			Humidity:        fmt.Sprintf("%d%%", 30+int(seed%51)),
			Wind:            fmt.Sprintf("%d mph", 5+int(seed%21)),
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	return tools.NewTool(
		"get_weather",
		"Get current weather for a location",
		handler,
	)
}

func resolveLocation(location string) (string, LocationDetails) {
	if isZipCode(location) {
		if details, ok := zipToCity[location]; ok {
			return fmt.Sprintf("%s, %s", details.City, details.State), details
		}
		return fmt.Sprintf("Area %s", location), LocationDetails{City: "Unknown City", State: "XX", Country: "USA"}
	}

	if strings.Contains(location, ",") {
		parts := strings.Split(location, ",")
		details := LocationDetails{City: strings.TrimSpace(parts[0]), Country: "USA"}
		if len(parts) > 1 {
			details.State = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			details.Country = strings.TrimSpace(parts[2])
		}
		return location, details
	}

	return location, LocationDetails{City: location, Country: "USA"}
}

func isZipCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func locationSeed(location string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(location)))
	return h.Sum64()
}
