package auth

import (
	"context"
	"errors"
	"sync"

	"artgallery-storefront/internal/domain"
)

// Client is one visitor's connection to the account backend. It remembers the
// access token of the last successful sign in.
type Client struct {
	svc *Service

	mu    sync.Mutex
	token string
}

// NewClient starts a client, optionally resuming an existing access token.
func (s *Service) NewClient(token string) *Client {
	return &Client{svc: s, token: token}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	sess, err := c.svc.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.setToken(sess.AccessToken)
	return sess.User, nil
}

func (c *Client) SignUp(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	sess, err := c.svc.SignUp(ctx, fullName, email, password)
	if err != nil {
		return nil, err
	}
	c.setToken(sess.AccessToken)
	return sess.User, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	token := c.Token()
	if token == "" {
		return nil
	}
	if err := c.svc.SignOut(ctx, token); err != nil {
		return err
	}
	c.setToken("")
	return nil
}

// Session returns nil when the client holds no valid token.
func (c *Client) Session(ctx context.Context) (*domain.User, error) {
	token := c.Token()
	if token == "" {
		return nil, nil
	}
	user, err := c.svc.Lookup(ctx, token)
	if errors.Is(err, ErrInvalidToken) {
		c.setToken("")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}
