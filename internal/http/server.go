package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmehdipour/notify-relay/internal/credentials"
	"github.com/jmehdipour/notify-relay/internal/dispatcher"
	"github.com/jmehdipour/notify-relay/internal/http/middleware"
	"github.com/jmehdipour/notify-relay/internal/model"
	"github.com/jmehdipour/notify-relay/internal/util"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	notifyPath       = "/api/notify"
	defaultBodyLimit = "10M"
)

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

// NewServer wires the relay routes. bodyLimit uses echo's size syntax ("10M");
// empty means defaultBodyLimit.
func NewServer(resolver credentials.Resolver, disp *dispatcher.Dispatcher, logger *zap.Logger, bodyLimit string) *Server {
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.ERROR)
	e.HTTPErrorHandler = jsonErrorHandler(logger)

	e.Use(
		echoMid.Recover(),
		echoMid.RequestIDWithConfig(echoMid.RequestIDConfig{Generator: util.NewRequestID}),
		requestLogger(logger),
		echoMid.BodyLimit(bodyLimit),
	)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// routes: POST is registered after Any so it replaces the catch-all for that method
	e.Any(notifyPath, func(c echo.Context) error { return echo.ErrMethodNotAllowed })
	e.POST(notifyPath, notifyHandler(disp, logger), middleware.Bearer(resolver))

	return &Server{e: e, log: logger}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// jsonErrorHandler renders every routing or unhandled error as {status,message}.
func jsonErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		} else {
			logger.Error("unhandled error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, model.Status{Status: code, Message: http.StatusText(code)})
		}
		if err != nil {
			logger.Warn("write error response", zap.Error(err))
		}
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echoMid.RequestLoggerWithConfig(echoMid.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echoMid.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}
