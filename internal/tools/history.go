package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sumanth-CBRE/Weatherbot/internal/location"
	"github.com/Sumanth-CBRE/Weatherbot/internal/weather"
)

// HistoryTool fetches recent historical weather for a location.
type HistoryTool struct {
	resolver *location.Resolver
	router   *weather.Router
}

var _ ToolExecutor = (*HistoryTool)(nil)

func NewHistoryTool(resolver *location.Resolver, router *weather.Router) *HistoryTool {
	return &HistoryTool{resolver: resolver, router: router}
}

func (t *HistoryTool) Definition() Tool {
	return NewFunctionTool(
		"get_history",
		"Get the past week of daily weather history for a location.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"location": {
					Type:        "string",
					Description: "A place name like 'Berlin', or coordinates like '40.7 -74.0'",
				},
			},
			Required: []string{"location"},
		},
	)
}

func (t *HistoryTool) Execute(ctx context.Context, arguments string) (string, error) {
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
	resp := t.router.Fetch(ctx, weather.KindHistory, loc)
	return resp.Payload, nil
}
