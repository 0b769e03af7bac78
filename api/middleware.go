package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationTypeBearer = "bearer"
	authorizationPrefixKey  = "prefix"
	prefixLength            = 8
)

// Authentication checks a bearer API key of the form <prefix>.<secret>
// against the bcrypt hash stored for its prefix.
func (server *Server) Authentication(c *gin.Context) {
	authorizationHeader := c.GetHeader(authorizationHeaderKey)

	if len(authorizationHeader) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("authorization header is not provided")))
		return
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("invalid authorization header format")))
		return
	}

	authorizationType := strings.ToLower(fields[0])
	if authorizationType != authorizationTypeBearer {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(fmt.Errorf("unsupported authorization type: %s", authorizationType)))
		return
	}

	apiKey := fields[1]

	prefix := strings.Split(apiKey, ".")[0]
	if len(prefix) != prefixLength {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	key, err := server.store.GetKey(c, prefix)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse(err))
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	if !key.ExpiresAt.IsZero() && time.Now().After(key.ExpiresAt) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("api key is expired")))
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(key.Hash), []byte(apiKey))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	c.Set(authorizationPrefixKey, prefix)
	c.Next()
}

// limiters hands out one token bucket per caller.
type limiters struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	byKey map[string]*rate.Limiter
}

func newLimiters(limit rate.Limit, burst int) *limiters {
	return &limiters{limit: limit, burst: burst, byKey: make(map[string]*rate.Limiter)}
}

func (l *limiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.byKey[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.byKey[key] = limiter
	}
	return limiter
}

// RateLimit rejects callers that exceed their request budget. Callers are
// identified by API key prefix, or by client address when authentication is off.
func (server *Server) RateLimit(c *gin.Context) {
	key := c.ClientIP()
	if prefix, ok := c.Get(authorizationPrefixKey); ok {
		key = prefix.(string)
	}
	if !server.limiters.get(key).Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": http.StatusTooManyRequests, "msg": "Too Many Requests"})
		return
	}
	c.Next()
}
