package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/engagekit/engagement-tracker/internal/middleware"
)

func setupBotFilterRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.BotFilter())
	r.GET("/visit", func(c *gin.Context) {
		if c.GetBool(middleware.IsBotKey) {
			c.String(http.StatusOK, "bot")
			return
		}
		c.String(http.StatusOK, "human")
	})
	return r
}

func classify(t *testing.T, r *gin.Engine, userAgent string) string {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/visit", http.NoBody)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestBotFilter_AllowsNormalUA(t *testing.T) {
	r := setupBotFilterRouter()

	got := classify(t, r, "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	if got != "human" {
		t.Fatalf("expected 'human' for normal UA, got %q", got)
	}
}

func TestBotFilter_FlagsKnownBots(t *testing.T) {
	r := setupBotFilterRouter()

	botAgents := []string{
		"TelegramBot (like TwitterBot)",
		"Twitterbot/1.0",
		"Googlebot/2.1 (+http://www.google.com/bot.html)",
		"facebookexternalhit/1.1",
	}

	for _, ua := range botAgents {
		if got := classify(t, r, ua); got != "bot" {
			t.Errorf("expected 'bot' for %q, got %q", ua, got)
		}
	}
}

func TestBotFilter_FlagsMissingUA(t *testing.T) {
	r := setupBotFilterRouter()

	if got := classify(t, r, ""); got != "bot" {
		t.Fatalf("expected 'bot' for missing UA, got %q", got)
	}
}
