package webui

// Config is the process-wide configuration for the chat service. It is
// assembled once at boot and read-only afterwards; per-request validation of
// the provider credentials happens in the chat handler.
type Config struct {
	OpenAIAPIKey string
	OpenAIAPIURL string // empty for the hosted OpenAI endpoint
	TavilyAPIKey string
	TavilyURL    string
	EmailUser    string
	EmailPass    string
	SMTPAddr     string
	Model        string
	Timeout      string
	PromptURL    string
}

type Option func(*Config)

func WithOpenAI(apiKey, apiURL string) Option {
	return func(c *Config) {
		c.OpenAIAPIKey = apiKey
		c.OpenAIAPIURL = apiURL
	}
}

func WithTavily(apiKey, url string) Option {
	return func(c *Config) {
		c.TavilyAPIKey = apiKey
		c.TavilyURL = url
	}
}

func WithEmailCredentials(user, pass string) Option {
	return func(c *Config) {
		c.EmailUser = user
		c.EmailPass = pass
	}
}

func WithSMTPAddr(addr string) Option {
	return func(c *Config) {
		if addr != "" {
			c.SMTPAddr = addr
		}
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		if model != "" {
			c.Model = model
		}
	}
}

func WithTimeout(timeout string) Option {
	return func(c *Config) {
		if timeout != "" {
			c.Timeout = timeout
		}
	}
}

func WithPromptURL(url string) Option {
	return func(c *Config) {
		if url != "" {
			c.PromptURL = url
		}
	}
}

func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

func NewConfig(opts ...Option) *Config {
	c := &Config{
		Model:     "gpt-4.1",
		SMTPAddr:  "smtp.gmail.com:587",
		Timeout:   "60s",
		PromptURL: "https://raw.githubusercontent.com/allylabs/prompts/main/react-chat.txt",
	}
	c.Apply(opts...)
	return c
}
