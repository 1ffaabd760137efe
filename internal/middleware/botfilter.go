package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// IsBotKey is the context key set by BotFilter.
const IsBotKey = "is_bot"

// botPatterns are known crawler User-Agent substrings (lowercase).
// Link previews from Telegram and X themselves are the most common source
// of phantom visits on tracked links.
var botPatterns = []string{
	"telegrambot", "twitterbot", "facebookexternalhit",
	"googlebot", "bingbot", "slurp", "duckduckbot",
	"yandexbot", "baiduspider", "linkedinbot", "embedly",
	"whatsapp", "discordbot", "skypeuripreview",
	"applebot", "semrushbot", "ahrefsbot", "petalbot",
	"bytespider",
}

// BotFilter sets c.Set(IsBotKey, true) for known crawler user agents.
// The visit handler still redirects flagged requests but skips recording,
// so previews and crawlers never count toward engagement.
func BotFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := strings.ToLower(c.Request.UserAgent())
		if ua == "" || isBot(ua) {
			c.Set(IsBotKey, true)
		}
		c.Next()
	}
}

func isBot(ua string) bool {
	for _, pattern := range botPatterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
