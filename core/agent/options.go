package agent

import (
	"fmt"

	"github.com/allylabs/allychat/core/types"
	"github.com/sashabaranov/go-openai"
)

type options struct {
	client        *openai.Client
	model         string
	temperature   float32
	maxIterations int
	actions       types.Actions
	template      string
}

type Option func(*options) error

func defaultOptions() *options {
	return &options{
		model:         "gpt-4.1",
		temperature:   0.7,
		maxIterations: 3,
	}
}

func newOptions(opts ...Option) (*options, error) {
	options := defaultOptions()
	for _, o := range opts {
		if err := o(options); err != nil {
			return nil, err
		}
	}
	if options.client == nil {
		return nil, fmt.Errorf("no LLM client configured")
	}
	if options.template == "" {
		return nil, fmt.Errorf("no prompt template configured")
	}
	return options, nil
}

func WithClient(client *openai.Client) Option {
	return func(o *options) error {
		o.client = client
		return nil
	}
}

func WithModel(model string) Option {
	return func(o *options) error {
		if model != "" {
			o.model = model
		}
		return nil
	}
}

func WithTemperature(t float32) Option {
	return func(o *options) error {
		o.temperature = t
		return nil
	}
}

func WithMaxIterations(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("max iterations must be positive, got %d", n)
		}
		o.maxIterations = n
		return nil
	}
}

func WithActions(actions ...types.Action) Option {
	return func(o *options) error {
		o.actions = append(o.actions, actions...)
		return nil
	}
}

func WithPromptTemplate(templ string) Option {
	return func(o *options) error {
		o.template = templ
		return nil
	}
}
