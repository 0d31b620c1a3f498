package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sumanth-CBRE/Weatherbot/internal/location"
	"github.com/Sumanth-CBRE/Weatherbot/internal/weather"
)

// AlertsTool reports active weather alerts for a US state.
type AlertsTool struct {
	router *weather.Router
}

var _ ToolExecutor = (*AlertsTool)(nil)

func NewAlertsTool(router *weather.Router) *AlertsTool {
	return &AlertsTool{router: router}
}

func (t *AlertsTool) Definition() Tool {
	return NewFunctionTool(
		"get_alerts",
		"Get active weather alerts for a US state.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"state": {
					Type:        "string",
					Description: "US state name or two-letter code, e.g. Texas or TX",
				},
			},
			Required: []string{"state"},
		},
	)
}

func (t *AlertsTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if args.State == "" {
		return "", fmt.Errorf("%w: state is required", ErrInvalidArguments)
	}

	loc := location.Location{Query: args.State, Region: location.RegionDomestic}
	code, ok := location.StateCode(args.State)
	if ok {
		loc.Query = code
	} else {
		loc = location.Location{
			Query:  args.State,
			Region: location.RegionUnresolved,
			Note:   fmt.Sprintf("%q is not a US state, so no alerts are available.", args.State),
		}
	}

	resp := t.router.Fetch(ctx, weather.KindAlerts, loc)
	return resp.Payload, nil
}
