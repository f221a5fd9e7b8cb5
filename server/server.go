// Package server exposes a Session over HTTP: the portfolio snapshot, the
// receipts history, action submission and a websocket pushing a new snapshot
// after every applied action.
package server

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/etnz/moneymarket"
	"github.com/etnz/moneymarket/config"
	"github.com/hertz-contrib/cors"
	"github.com/hertz-contrib/gzip"
	"github.com/hertz-contrib/logger/accesslog"
	"github.com/hertz-contrib/pprof"
	"github.com/rs/zerolog"
)

// Handlers serves one Session.
type Handlers struct {
	session *moneymarket.Session
	log     zerolog.Logger
}

// NewHandlers creates the handlers of 'session'.
func NewHandlers(session *moneymarket.Session, log zerolog.Logger) *Handlers {
	return &Handlers{session: session, log: log}
}

// New creates a hertz server for 'session', with the middlewares enabled in
// 'cfg'. Call Spin to run it.
func New(session *moneymarket.Session, cfg config.Server, log zerolog.Logger) *server.Hertz {
	h := server.New(server.WithHostPorts(cfg.Address))
	// the websocket handler hijacks the connection
	h.NoHijackConnPool = true
	Use(h.Engine, cfg)
	NewHandlers(session, log).Register(h.Engine)
	return h
}

// Use installs the middlewares enabled in 'cfg'.
func Use(e *route.Engine, cfg config.Server) {
	if cfg.EnableAccessLog {
		e.Use(accesslog.New())
	}
	if cfg.EnableCORS {
		e.Use(cors.Default())
	}
	if cfg.EnableGzip {
		e.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws"})))
	}
	if cfg.EnablePprof {
		pprof.RouteRegister(&e.RouterGroup)
	}
}

// Register adds the routes.
func (s *Handlers) Register(e *route.Engine) {
	e.GET("/health", s.Health)
	api := e.Group("/api")
	api.GET("/portfolio", s.Portfolio)
	api.GET("/assets/:denom", s.Asset)
	api.POST("/actions", s.Execute)
	api.GET("/receipts", s.Receipts)
	e.GET("/ws", s.Stream)
}

// Health reports that the server is up.
func (s *Handlers) Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]interface{}{"status": "ok"})
}

// Portfolio returns the current snapshot.
func (s *Handlers) Portfolio(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, s.session.Snapshot())
}

// Asset returns a single asset of the current snapshot.
func (s *Handlers) Asset(ctx context.Context, c *app.RequestContext) {
	denom := c.Param("denom")
	a, ok := s.session.Snapshot().Asset(denom)
	if !ok {
		c.JSON(consts.StatusNotFound, map[string]interface{}{"error": "unknown asset " + denom})
		return
	}
	c.JSON(consts.StatusOK, a)
}

// Receipts returns the session history.
func (s *Handlers) Receipts(ctx context.Context, c *app.RequestContext) {
	rs := s.session.Receipts()
	if rs == nil {
		rs = []moneymarket.Receipt{}
	}
	c.JSON(consts.StatusOK, rs)
}

// Execute submits the action in the request body and waits for its receipt.
func (s *Handlers) Execute(ctx context.Context, c *app.RequestContext) {
	var action moneymarket.Action
	if err := c.BindJSON(&action); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "invalid action: " + err.Error()})
		return
	}
	receipt, err := s.session.Execute(ctx, action)
	if err != nil {
		c.JSON(statusOf(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, receipt)
}

// statusOf maps an Execute error to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return consts.StatusServiceUnavailable
	case isValidation(err):
		return consts.StatusBadRequest
	default:
		return consts.StatusInternalServerError
	}
}

// validationErrors are the recoverable failures of an action.
var validationErrors = []error{
	moneymarket.ErrMissingAsset,
	moneymarket.ErrMissingAmount,
	moneymarket.ErrUnknownAsset,
	moneymarket.ErrUnknownCommand,
	moneymarket.ErrInvalidAmount,
	moneymarket.ErrTooPrecise,
	moneymarket.ErrNonPositiveAmount,
	moneymarket.ErrInsufficientBalance,
	moneymarket.ErrInsufficientSupplied,
	moneymarket.ErrRepayExceedsBorrowed,
	moneymarket.ErrNoCollateral,
	moneymarket.ErrInsufficientCollateral,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
