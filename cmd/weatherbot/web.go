package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sumanth-CBRE/Weatherbot/internal/intent"
	"github.com/Sumanth-CBRE/Weatherbot/internal/tools"
	"github.com/Sumanth-CBRE/Weatherbot/pkg/logx"
)

const usageHint = "Try: alerts in <STATE>, forecast for <LOCATION>, or history for <LOCATION>"

const indexPage = `<html>
<head><title>Weatherbot</title></head>
<body>
    <h2>Weatherbot</h2>
    <form id="chat-form">
        <input type="text" id="query" name="query" placeholder="Ask about weather..." style="width:300px;">
        <button type="submit">Send</button>
    </form>
    <pre id="response" style="margin-top:1em;background:#f0f0f0;padding:1em;"></pre>
    <script>
    document.getElementById('chat-form').onsubmit = async function(e) {
        e.preventDefault();
        const query = document.getElementById('query').value;
        const resp = await fetch('/chat', {
            method: 'POST',
            headers: {'Content-Type': 'application/json'},
            body: JSON.stringify({query})
        });
        const data = await resp.json();
        document.getElementById('response').textContent = data.response;
    };
    </script>
</body>
</html>`

// runWeb serves the minimal chat page. The web path skips the LLM entirely:
// the intent adapter maps the query straight onto a tool invocation.
func runWeb(cfg *AppConfig, manager *tools.Manager) {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()

	engine.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
	})
	engine.POST("/chat", func(c *gin.Context) {
		var req struct {
			Query string `json:"query"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"response": answerDirect(c, manager, req.Query)})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}
	go func() {
		logx.Info().Str("addr", srv.Addr).Msg("web surface listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("listen error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logx.Info().Msg("shutting down web surface")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logx.Fatal().Err(err).Msg("server shutdown failed")
	}
}

// answerDirect maps a parsed intent onto the matching tool.
func answerDirect(c *gin.Context, manager *tools.Manager, query string) string {
	parsed, span := intent.Parse(query)
	if parsed == intent.IntentUnknown || span == "" {
		return usageHint
	}

	var name string
	var args map[string]string
	switch parsed {
	case intent.IntentAlerts:
		name, args = "get_alerts", map[string]string{"state": span}
	case intent.IntentForecast:
		name, args = "get_forecast", map[string]string{"location": span}
	case intent.IntentHistory:
		name, args = "get_history", map[string]string{"location": span}
	}

	payload, err := json.Marshal(args)
	if err != nil {
		return usageHint
	}
	result, err := manager.Execute(c.Request.Context(), name, string(payload))
	if err != nil {
		return fmt.Sprintf("Could not answer that: %v", err)
	}
	return result
}
