package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mireles/ontoground/internal/grounding"
)

// Config contains NATS connection configuration.
type Config struct {
	URL            string        `json:"url" yaml:"url"`
	CredsFile      string        `json:"creds_file,omitempty" yaml:"creds_file,omitempty"`
	Token          string        `json:"token,omitempty" yaml:"token,omitempty"`
	ConnectTimeout time.Duration `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
	ReconnectWait  time.Duration `json:"reconnect_wait,omitempty" yaml:"reconnect_wait,omitempty"`
	MaxReconnects  int           `json:"max_reconnects,omitempty" yaml:"max_reconnects,omitempty"`

	// QueueGroup lets multiple servers share the request load.
	QueueGroup string `json:"queue_group,omitempty" yaml:"queue_group,omitempty"`
}

// DefaultConfig returns the default NATS configuration.
func DefaultConfig() Config {
	return Config{
		URL:            nats.DefaultURL, // "nats://localhost:4222"
		ConnectTimeout: 5 * time.Second,
		ReconnectWait:  2 * time.Second,
		MaxReconnects:  60,
		QueueGroup:     "ontoground",
	}
}

// Server answers grounding requests over NATS.
type Server struct {
	conn     *nats.Conn
	searcher *grounding.Searcher
	config   Config
	logger   *slog.Logger
	subs     []*nats.Subscription
}

// NewServer creates a grounding server backed by the given searcher.
func NewServer(searcher *grounding.Searcher, config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		searcher: searcher,
		config:   config,
		logger:   logger,
	}
}

// Connect establishes the NATS connection.
func (s *Server) Connect() error {
	opts := []nats.Option{
		nats.Name("ontoground-server"),
		nats.Timeout(s.config.ConnectTimeout),
		nats.ReconnectWait(s.config.ReconnectWait),
		nats.MaxReconnects(s.config.MaxReconnects),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			s.logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			s.logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			s.logger.Warn("nats error", "error", err)
		}),
	}

	if s.config.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(s.config.CredsFile))
	}
	if s.config.Token != "" {
		opts = append(opts, nats.Token(s.config.Token))
	}

	conn, err := nats.Connect(s.config.URL, opts...)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrConnectionFailed, err)
	}

	s.conn = conn
	return nil
}

// Start subscribes to the request subjects. Requests are handled on
// NATS delivery goroutines; the searcher is safe for concurrent use.
func (s *Server) Start(ctx context.Context) error {
	if s.conn == nil {
		return ErrNotConnected
	}

	searchSub, err := s.conn.QueueSubscribe(SubjectSearch, s.config.QueueGroup, func(msg *nats.Msg) {
		msg.Respond(s.handleSearch(ctx, msg.Data))
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectSearch, err)
	}
	s.subs = append(s.subs, searchSub)

	groundSub, err := s.conn.QueueSubscribe(SubjectGround, s.config.QueueGroup, func(msg *nats.Msg) {
		msg.Respond(s.handleGround(ctx, msg.Data))
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectGround, err)
	}
	s.subs = append(s.subs, groundSub)

	s.logger.Info("grounding service started",
		"url", s.conn.ConnectedUrl(),
		"queue_group", s.config.QueueGroup)
	return nil
}

// handleSearch decodes a search request, runs it, and encodes the reply.
func (s *Server) handleSearch(ctx context.Context, data []byte) []byte {
	req, err := DecodeSearchRequest(data)
	if err != nil {
		return mustEncode(SearchResponse{Error: fmt.Sprintf("%v: %v", ErrInvalidRequest, err)})
	}

	results, err := s.searcher.Search(ctx, req.Vocabulary, req.Query, req.Limit)
	if err != nil {
		s.logger.Warn("search request failed", "id", req.ID, "vocabulary", req.Vocabulary, "error", err)
		return mustEncode(SearchResponse{ID: req.ID, Error: err.Error()})
	}

	return mustEncode(SearchResponse{ID: req.ID, Results: results})
}

// handleGround decodes a ground request, runs it, and encodes the reply.
func (s *Server) handleGround(ctx context.Context, data []byte) []byte {
	req, err := DecodeGroundRequest(data)
	if err != nil {
		return mustEncode(GroundResponse{Error: fmt.Sprintf("%v: %v", ErrInvalidRequest, err)})
	}

	outcome, err := s.searcher.BatchGround(ctx, req.Mentions, req.Vocabularies)
	if err != nil {
		s.logger.Warn("ground request failed", "id", req.ID, "error", err)
		return mustEncode(GroundResponse{ID: req.ID, Error: err.Error()})
	}

	return mustEncode(GroundResponse{ID: req.ID, Outcome: outcome})
}

func mustEncode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// Responses only contain encodable types; this indicates a bug.
		panic(err)
	}
	return data
}

// IsConnected returns true if connected to NATS.
func (s *Server) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

// Close drains the subscriptions and closes the connection.
func (s *Server) Close() error {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}
