package middleware

import (
	"log/slog"
	"os"
	"regexp"
	"time"

	"parkspot/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxRequestIDKey = "request_id"
	ctxLoggerKey    = "request_logger"
)

// ids supplied by proxies are echoed back, so only short printable ones are trusted
var safeRequestID = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,64}$`)

// probes and docs would drown the access log at Info
var quietPaths = map[string]bool{
	"/health":           true,
	"/swagger/*any":     true,
	"/api/spots/stream": true,
}

type Logger struct {
	logger   *slog.Logger
	timezone *time.Location
}

func NewLogger(cfg config.LogConfig) *Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.Level)); err != nil {
		logLevel = slog.LevelInfo
	}

	timezone := time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)

	opts := &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.In(timezone).Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if gin.Mode() == gin.ReleaseMode {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("service", "parkspot")
	slog.SetDefault(logger)

	return &Logger{
		logger:   logger,
		timezone: timezone,
	}
}

func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}

// LoggingMiddleware tags every request with an id (taken from X-Request-ID when
// the caller supplies a usable one), stores a request-scoped logger on the
// context and logs the outcome once the handler chain returns.
func (l *Logger) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if !safeRequestID.MatchString(requestID) {
			requestID = uuid.NewString()
		}

		c.Set(ctxRequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		route := c.FullPath()
		reqLogger := l.logger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("route", route),
		)
		c.Set(ctxLoggerKey, reqLogger)

		reqLogger.Debug("Request started", "path", c.Request.URL.Path, "client_ip", c.ClientIP())

		c.Next()

		statusCode := c.Writer.Status()
		attrs := []any{
			slog.Int("status_code", statusCode),
			slog.Duration("duration", time.Since(startTime)),
		}
		// identity is only known once the auth middleware has run
		if actor, ok := GetActor(c); ok {
			attrs = append(attrs, slog.String("user_id", actor.UserID), slog.String("role", actor.Role.String()))
		}
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, slog.String("resource_id", id))
		}
		if responseSize := c.Writer.Size(); responseSize > 0 {
			attrs = append(attrs, slog.Int("response_size", responseSize))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logLevel := slog.LevelInfo
		switch {
		case statusCode >= 500:
			logLevel = slog.LevelError
		case statusCode >= 400:
			logLevel = slog.LevelWarn
		case quietPaths[route]:
			logLevel = slog.LevelDebug
		}

		reqLogger.Log(c.Request.Context(), logLevel, "Request completed", attrs...)
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}

// RequestLogger returns the logger tagged with this request's id, or the
// default logger outside LoggingMiddleware.
func RequestLogger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(ctxLoggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
