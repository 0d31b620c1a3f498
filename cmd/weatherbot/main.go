package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Sumanth-CBRE/Weatherbot/internal/chat"
	"github.com/Sumanth-CBRE/Weatherbot/internal/llm"
	"github.com/Sumanth-CBRE/Weatherbot/internal/location"
	"github.com/Sumanth-CBRE/Weatherbot/internal/tools"
	"github.com/Sumanth-CBRE/Weatherbot/internal/weather"
	"github.com/Sumanth-CBRE/Weatherbot/pkg/logx"
)

// main is the composition root: it loads configuration, wires every service,
// and starts either the interactive chat loop or the web surface.
func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logx.Init(cfg.AppEnv)

	buildInfo := GetBuildInfo()
	logx.Info().
		Str("version", buildInfo.Version).
		Str("commit", buildInfo.GitCommit).
		Msg("starting weatherbot")

	manager := buildWeatherServices(cfg)

	if len(os.Args) > 1 && os.Args[1] == "web" {
		runWeb(cfg, manager)
		return
	}

	if cfg.LLMAPIKey == "" {
		logx.Fatal().Msg("LLM_API_KEY is required for the chat loop")
	}
	client, err := llm.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.Model, cfg.HTTPTimeout())
	if err != nil {
		logx.Fatal().Err(err).Msg("could not create chat client")
	}
	orchestrator, err := chat.NewOrchestrator(client, manager, chat.Options{
		MaxToolRounds:       cfg.MaxToolRounds,
		ToolTimeout:         cfg.ToolTimeout(),
		PlaceholderPatterns: cfg.PlaceholderPatterns,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("could not create orchestrator")
	}

	runChatLoop(orchestrator)
}

// buildWeatherServices wires the resolver, providers, router, and tool set.
func buildWeatherServices(cfg *AppConfig) *tools.Manager {
	var cache *location.GeoCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logx.Warn().Err(err).Msg("invalid REDIS_URL, geocode caching disabled")
		} else {
			rdb := redis.NewClient(opts)
			if err := rdb.Ping(context.Background()).Err(); err != nil {
				logx.Warn().Err(err).Msg("redis unreachable, geocode caching disabled")
			} else {
				cache = location.NewGeoCache(rdb, cfg.GeoCacheTTL())
				logx.Info().Msg("geocode cache enabled")
			}
		}
	}

	geocoder := location.NewNominatimClient(cfg.Endpoints.Nominatim, cfg.UserAgent, cfg.HTTPTimeout())
	resolver := location.NewResolver(geocoder, cache, cfg.HomeCountry)

	nws := weather.NewNWSClient(cfg.Endpoints.NWS, cfg.UserAgent, cfg.HTTPTimeout())
	meteo := weather.NewOpenMeteoClient(cfg.Endpoints.OpenMeteoForecast, cfg.Endpoints.OpenMeteoArchive, cfg.HTTPTimeout())
	router := weather.NewRouter(nws, meteo)

	manager := tools.NewManager()
	manager.Register(tools.NewAlertsTool(router))
	manager.Register(tools.NewForecastTool(resolver, router))
	manager.Register(tools.NewHistoryTool(resolver, router))
	logx.Info().Int("tools", manager.Count()).Msg("tool registry initialized")

	return manager
}

// runChatLoop reads queries from stdin until the quit sentinel.
func runChatLoop(orchestrator *chat.Orchestrator) {
	sess := chat.NewSession()
	fmt.Println("\nWeatherbot started! Type your queries or 'quit' to exit.")
	fmt.Println("\nExample queries:")
	fmt.Println("  - Weather alerts in Texas")
	fmt.Println("  - Weather forecast for 40.7 -74.0")
	fmt.Println("  - Weather history for Paris")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nQuery: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "quit") {
			break
		}

		answer, err := orchestrator.Ask(context.Background(), sess, query)
		fmt.Println("\n" + strings.Repeat("=", 40))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		} else {
			fmt.Println(answer)
		}
		fmt.Println(strings.Repeat("=", 40))
	}
	fmt.Println("Goodbye!")
}
