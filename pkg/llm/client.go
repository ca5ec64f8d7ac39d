package llm

import (
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI-compatible chat completion client. URL may be
// empty to use the default OpenAI endpoint; timeout is parsed as a duration
// string and bounds every completion call.
func NewClient(apiKey, url, timeout string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if url != "" {
		config.BaseURL = url
	}

	dur, err := time.ParseDuration(timeout)
	if err != nil {
		dur = 60 * time.Second
	}
	config.HTTPClient = &http.Client{
		Timeout: dur,
	}

	return openai.NewClientWithConfig(config)
}
