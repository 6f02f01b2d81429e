package middleware

import (
	"net/http"
	"os"
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/micdr93/yardly/internal/utilities"
)

// DefaultRequestsPerSecond is used when RATE_LIMIT_REQUESTS_PER_SECOND is unset or invalid.
const DefaultRequestsPerSecond = 5

func keyFunc(c *gin.Context) string {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		return "ip: " + c.ClientIP()
	}
	return "user: " + user.ID.String()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.Header("Retry-After", strconv.Itoa(int(time.Until(info.ResetTime).Seconds())+1))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, utilities.ErrorResponse{
		Error: "Too many requests. Please try again later.",
	})
}

// RateLimiterMiddleware limits each user, or each client IP before login,
// to reqPerSec requests per second.
func RateLimiterMiddleware(reqPerSec uint) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: reqPerSec,
	})

	return ratelimit.RateLimiter(store, &ratelimit.Options{
		KeyFunc:      keyFunc,
		ErrorHandler: errorHandler,
	})
}

// EnvRateLimitMiddleware reads the limit from RATE_LIMIT_REQUESTS_PER_SECOND.
func EnvRateLimitMiddleware() gin.HandlerFunc {
	rateLimitInt, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS_PER_SECOND"))
	if err != nil || rateLimitInt <= 0 {
		rateLimitInt = DefaultRequestsPerSecond
	}

	return RateLimiterMiddleware(uint(rateLimitInt))
}
