package advisory

import (
	"context"
	"fmt"
	"log"
)

// Chain tries backends in a fixed preference order (local first, then
// remote) and returns the first successful response. It satisfies Client so
// callers never care which backend answered.
type Chain struct {
	clients []Client
}

// NewChain creates a fallback chain over the given backends. Nil entries are
// skipped so callers can pass optional backends unconditionally.
func NewChain(clients ...Client) *Chain {
	chain := &Chain{}
	for _, c := range clients {
		if c != nil {
			chain.clients = append(chain.clients, c)
		}
	}
	return chain
}

// Name identifies the backend in logs
func (c *Chain) Name() string { return "chain" }

// Chat tries each backend in order; the last error is returned if all fail
func (c *Chain) Chat(ctx context.Context, system, user string) (string, error) {
	if len(c.clients) == 0 {
		return "", ErrUnavailable
	}

	var lastErr error
	for _, client := range c.clients {
		text, err := client.Chat(ctx, system, user)
		if err == nil {
			return text, nil
		}
		log.Printf("advisory backend %s failed: %v", client.Name(), err)
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("all advisory backends failed: %w", lastErr)
}
