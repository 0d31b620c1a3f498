package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sumanth-CBRE/Weatherbot/internal/location"
	"github.com/Sumanth-CBRE/Weatherbot/internal/weather"
)

// ForecastTool fetches the forecast for a place name or coordinate pair.
type ForecastTool struct {
	resolver *location.Resolver
	router   *weather.Router
}

var _ ToolExecutor = (*ForecastTool)(nil)

func NewForecastTool(resolver *location.Resolver, router *weather.Router) *ForecastTool {
	return &ForecastTool{resolver: resolver, router: router}
}

func (t *ForecastTool) Definition() Tool {
	return NewFunctionTool(
		"get_forecast",
		"Get the weather forecast for a location anywhere in the world.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"location": {
					Type:        "string",
					Description: "A place name like 'Paris' or 'New York', or coordinates like '40.7 -74.0'",
				},
			},
			Required: []string{"location"},
		},
	)
}

func (t *ForecastTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if args.Location == "" {
		return "", fmt.Errorf("%w: location is required", ErrInvalidArguments)
	}

	loc := t.resolver.Resolve(ctx, args.Location)
	resp := t.router.Fetch(ctx, weather.KindForecast, loc)
	return resp.Payload, nil
}
