package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// PromptStore pulls the reasoning template from a remote template store and
// memoizes it for the life of the process. Only a successful fetch is
// cached: a failed fetch is retried on the next request. The cached template
// is never refreshed, remote edits require a restart.
type PromptStore struct {
	url    string
	client *http.Client

	mu     sync.Mutex
	cached string
}

func NewPromptStore(url string) *PromptStore {
	return &PromptStore{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Template returns the memoized reasoning template, fetching it on first use.
func (p *PromptStore) Template(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", fmt.Errorf("building template request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching prompt template: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching prompt template: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading prompt template: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("prompt template store returned an empty template")
	}

	p.cached = string(body)
	return p.cached, nil
}
