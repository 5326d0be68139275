package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mireles/ontoground/internal/grounding"
)

// Client talks to a running grounding server over NATS.
type Client struct {
	conn   *nats.Conn
	config Config
}

// NewClient creates a grounding service client.
func NewClient(config Config) *Client {
	return &Client{config: config}
}

// Connect establishes the NATS connection.
func (c *Client) Connect() error {
	opts := []nats.Option{
		nats.Name("ontoground-client"),
		nats.Timeout(c.config.ConnectTimeout),
		nats.ReconnectWait(c.config.ReconnectWait),
		nats.MaxReconnects(c.config.MaxReconnects),
	}
	if c.config.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(c.config.CredsFile))
	}
	if c.config.Token != "" {
		opts = append(opts, nats.Token(c.config.Token))
	}

	conn, err := nats.Connect(c.config.URL, opts...)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrConnectionFailed, err)
	}
	c.conn = conn
	return nil
}

// Search resolves a query against one vocabulary on the server.
func (c *Client) Search(ctx context.Context, vocabulary, query string, limit int) ([]grounding.Result, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	data, err := NewSearchRequest(vocabulary, query, limit).Encode()
	if err != nil {
		return nil, err
	}

	msg, err := c.conn.RequestWithContext(ctx, SubjectSearch, data)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}

	var resp SearchResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, resp.Error)
	}
	return resp.Results, nil
}

// Ground grounds a batch of mentions on the server.
func (c *Client) Ground(ctx context.Context, mentions []grounding.Mention, vocabularies map[string]string) (*grounding.Outcome, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	data, err := NewGroundRequest(mentions, vocabularies).Encode()
	if err != nil {
		return nil, err
	}

	msg, err := c.conn.RequestWithContext(ctx, SubjectGround, data)
	if err != nil {
		return nil, fmt.Errorf("ground request: %w", err)
	}

	var resp GroundResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("decoding ground response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, resp.Error)
	}
	return resp.Outcome, nil
}

// IsConnected returns true if connected to NATS.
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close closes the NATS connection.
func (c *Client) Close() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return nil
}
