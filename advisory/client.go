// Package advisory wraps the text-completion services used to analyze cases
// and suggest scheduling priorities. Responses are free text expected to
// contain one JSON object; callers must extract and validate defensively.
package advisory

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrUnavailable = errors.New("advisory service unavailable")
	ErrTimeout     = errors.New("advisory call timed out")
	ErrEmpty       = errors.New("advisory service returned empty content")
)

// Client is a chat-style text completion backend. Implementations must honor
// context cancellation. Both backends share this contract so the caller can
// try one and fall back to the other.
type Client interface {
	Chat(ctx context.Context, system, user string) (string, error)
	Name() string
}

// CallWithTimeout runs a chat call on its own goroutine bounded by a
// deadline. On expiry the call is canceled and abandoned; the caller gets
// ErrTimeout immediately. A zero timeout means an unbounded wait. Safe to use
// from any goroutine.
func CallWithTimeout(ctx context.Context, c Client, timeout time.Duration, system, user string) (string, error) {
	if timeout <= 0 {
		return c.Chat(ctx, system, user)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := c.Chat(callCtx, system, user)
		ch <- result{text, err}
	}()

	select {
	case r := <-ch:
		return r.text, r.err
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", callCtx.Err()
	}
}

// ExtractJSON normalizes a model response into a JSON candidate: it strips
// accidental markdown code fences and slices the substring between the first
// '{' and the last '}'. The result may still be invalid JSON.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) >= 2 {
			text = strings.Join(lines[1:len(lines)-1], "\n")
		}
		text = strings.ReplaceAll(text, "```json", "")
		text = strings.ReplaceAll(text, "```", "")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		text = text[start : end+1]
	}

	return text
}
