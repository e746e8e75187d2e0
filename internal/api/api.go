// Package api exposes the HTTP surface of the order bot: the WhatsApp Cloud
// API webhook (verification handshake and message deliveries), a health
// endpoint and static serving of the catalog images.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nortsur/orderbot/internal/models"
)

// Default server configuration constants.
const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"
	// DefaultHandleTimeout bounds the processing of a single inbound
	// message, backend calls and replies included.
	DefaultHandleTimeout = 30 * time.Second
	// catalogImagesPrefix is where catalog images are served from.
	catalogImagesPrefix = "/catalog/images/"
)

// MessageHandler processes one inbound message end to end.
type MessageHandler interface {
	Handle(ctx context.Context, msg models.InboundMessage)
}

// Opts holds the server configuration options.
type Opts struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// VerifyToken is the shared secret Meta echoes back during the
	// webhook verification handshake.
	VerifyToken string
	// CatalogDir, when set, is served read-only under /catalog/images/.
	CatalogDir string
	// HandleTimeout bounds per-message processing.
	HandleTimeout time.Duration
}

// Option defines a configuration option for the server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithVerifyToken sets the webhook verification token.
func WithVerifyToken(token string) Option {
	return func(o *Opts) { o.VerifyToken = token }
}

// WithCatalogDir serves the given directory under /catalog/images/.
func WithCatalogDir(dir string) Option {
	return func(o *Opts) { o.CatalogDir = dir }
}

// WithHandleTimeout overrides the per-message processing timeout.
func WithHandleTimeout(d time.Duration) Option {
	return func(o *Opts) { o.HandleTimeout = d }
}

// Server routes webhook traffic to the message handler.
type Server struct {
	handler MessageHandler
	opts    Opts
}

// NewServer creates an HTTP server around the given message handler.
func NewServer(handler MessageHandler, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr, HandleTimeout: DefaultHandleTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.HandleTimeout <= 0 {
		cfg.HandleTimeout = DefaultHandleTimeout
	}
	return &Server{handler: handler, opts: cfg}
}

// Routes builds the request multiplexer with all endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.webhookHandler)
	mux.HandleFunc("/health", s.healthHandler)
	if s.opts.CatalogDir != "" {
		slog.Debug("Server serving catalog images", "dir", s.opts.CatalogDir, "prefix", catalogImagesPrefix)
		mux.Handle(catalogImagesPrefix, http.StripPrefix(catalogImagesPrefix, http.FileServer(http.Dir(s.opts.CatalogDir))))
	}
	return mux
}

// Run starts the HTTP server and blocks until it fails.
func (s *Server) Run() error {
	slog.Info("Server listening", "addr", s.opts.Addr, "verify_token_set", s.opts.VerifyToken != "")
	return http.ListenAndServe(s.opts.Addr, s.Routes())
}
