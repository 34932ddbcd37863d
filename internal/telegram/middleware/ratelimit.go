package middleware

import (
	"strconv"
	"time"

	"github.com/futig/rag-query-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL  = time.Hour
	warningInterval = 30 * time.Second
)

// RateLimiterMiddleware drops updates from users that exceed their token bucket
type RateLimiterMiddleware struct {
	limiters  *cache.Cache // user id -> *rate.Limiter, evicted after an idle hour
	warnings  *cache.Cache // user id -> struct{}, one warning per interval
	perSecond rate.Limit
	burst     int
	logger    *zap.Logger
	bot       Sender
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(requestsPerMinute, burst int, logger *zap.Logger, bot Sender) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limiters:  cache.New(limiterIdleTTL, 10*time.Minute),
		warnings:  cache.New(warningInterval, time.Minute),
		perSecond: rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:     burst,
		logger:    logger,
		bot:       bot,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := updateIDs(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allow(userID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		rl.warn(userID, chatID)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) allow(userID int64) bool {
	return rl.limiter(strconv.FormatInt(userID, 10)).Allow()
}

func (rl *RateLimiterMiddleware) limiter(key string) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		// refresh the idle expiration
		rl.limiters.SetDefault(key, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rl.perSecond, rl.burst)
	if err := rl.limiters.Add(key, limiter, cache.DefaultExpiration); err != nil {
		// another update for the same user got there first
		if v, ok := rl.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

func (rl *RateLimiterMiddleware) warn(userID, chatID int64) {
	key := strconv.FormatInt(userID, 10)
	if err := rl.warnings.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
		return
	}

	if _, err := rl.bot.Send(tgbotapi.NewMessage(chatID, render.MsgRateLimited)); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
