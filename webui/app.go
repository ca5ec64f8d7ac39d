package webui

import (
	"context"
	"embed"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/allylabs/allychat/core/agent"
	coretypes "github.com/allylabs/allychat/core/types"
	"github.com/allylabs/allychat/pkg/llm"
	"github.com/allylabs/allychat/services/actions"
	"github.com/allylabs/allychat/webui/types"
	"github.com/google/uuid"
	"github.com/mudler/xlog"
	"github.com/sashabaranov/go-openai"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html
var viewsfs embed.FS

// questionPrefix biases the agent toward the product domain.
const questionPrefix = "ROG Xbox Ally and Xbox Ally X gaming question: "

// fallbackResponses are the canned answers served when the agent fails.
// The widget never shows a raw error.
var fallbackResponses = []string{
	"I'm having trouble connecting to my search tools right now. Based on what I know, the Xbox handheld console is expected to feature custom AMD hardware for optimal gaming performance on the go!",
	"Sorry, I'm experiencing some technical difficulties with my research capabilities. However, the Xbox handheld is rumored to support Xbox Game Pass natively, giving you access to hundreds of games instantly.",
	"I'm temporarily unable to access my search tools. From leaked information, the device might have excellent battery life, potentially 6-8 hours for most games.",
}

type App struct {
	config  *Config
	client  *openai.Client
	prompts *agent.PromptStore
	timeout time.Duration
	webapp  *fiber.App
}

func NewApp(opts ...Option) *App {
	config := NewConfig(opts...)
	engine := html.NewFileSystem(http.FS(viewsfs), ".html")

	webapp := fiber.New(fiber.Config{
		Views: engine,
	})

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		timeout = 60 * time.Second
	}

	a := &App{
		config:  config,
		client:  llm.NewClient(config.OpenAIAPIKey, config.OpenAIAPIURL, config.Timeout),
		prompts: agent.NewPromptStore(config.PromptURL),
		timeout: timeout,
		webapp:  webapp,
	}
	a.registerRoutes(webapp)
	return a
}

func (a *App) Listen(addr string) error {
	return a.webapp.Listen(addr)
}

// Fiber exposes the underlying app for in-process testing.
func (a *App) Fiber() *fiber.App {
	return a.webapp
}

// Chat handles POST /api/chat: validate, build the agent, invoke it and map
// the outcome to a response. Only input and configuration problems surface
// as HTTP errors; agent failures degrade to canned answers with HTTP 200.
func (a *App) Chat() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		var payload types.ChatRequest
		if err := c.BodyParser(&payload); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request")
		}

		message := strings.TrimSpace(payload.Message)
		if message == "" {
			return errorJSON(c, http.StatusBadRequest, "Message is required")
		}
		if a.config.OpenAIAPIKey == "" {
			return errorJSON(c, http.StatusInternalServerError, "OpenAI API key not configured")
		}
		if a.config.TavilyAPIKey == "" {
			return errorJSON(c, http.StatusInternalServerError, "Tavily API key not configured")
		}

		requestID := uuid.New().String()
		xlog.Info("Chat request", "id", requestID, "history", len(payload.ChatHistory))

		response, fallback := a.converse(message, payload.ChatHistory, requestID)

		return c.JSON(types.ChatResponse{
			Response:  response,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Fallback:  fallback,
		})
	}
}

func (a *App) converse(message string, history []coretypes.ChatMessage, requestID string) (string, bool) {
	// Provider calls should not be cut short by a client disconnect, so the
	// deadline hangs off the background context rather than the request.
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	template, err := a.prompts.Template(ctx)
	if err != nil {
		xlog.Error("Prompt template unavailable", "id", requestID, "error", err)
		return pickFallback(), true
	}

	reactAgent, err := agent.New(
		agent.WithClient(a.client),
		agent.WithModel(a.config.Model),
		agent.WithPromptTemplate(template),
		agent.WithActions(actions.Available(actions.Config{
			TavilyAPIKey: a.config.TavilyAPIKey,
			TavilyURL:    a.config.TavilyURL,
			SMTPAddr:     a.config.SMTPAddr,
			EmailUser:    a.config.EmailUser,
			EmailPass:    a.config.EmailPass,
		})...),
	)
	if err != nil {
		xlog.Error("Building agent failed", "id", requestID, "error", err)
		return pickFallback(), true
	}

	result, err := reactAgent.Run(ctx, questionPrefix+message, coretypes.FormatHistory(history))
	if err != nil {
		if salvaged, ok := salvageParseError(err); ok {
			xlog.Warn("Salvaged answer from unparseable output", "id", requestID)
			return salvaged, false
		}
		xlog.Error("Agent run failed", "id", requestID, "error", err)
		return pickFallback(), true
	}

	xlog.Debug("Agent answered", "id", requestID, "steps", len(result.Steps))
	return result.Output, false
}

// Status serves the static API descriptor on GET /api/chat.
func (a *App) Status() func(c *fiber.Ctx) error {
	descriptor := types.StatusResponse{
		Message:  "Ally Gaming Assistant agent API is running",
		Status:   "healthy",
		Model:    a.config.Model,
		Features: []string{"ReAct Agent", "Chat History", "Tavily Search", "Contact Email"},
		Tools:    []string{actions.ActionSearch, actions.ActionSendContact},
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(descriptor)
	}
}

var (
	parseErrRegex       = regexp.MustCompile(`(?s)Could not parse LLM output: (.*)$`)
	troubleshootingLine = regexp.MustCompile(`(?s)\n\nTroubleshooting URL:.*$`)
)

// salvageParseError recovers the model's raw text from a parse failure.
// Legacy compatibility: the extraction depends on the error wording, so it
// stays keyed on the message text rather than the error type.
func salvageParseError(err error) (string, bool) {
	match := parseErrRegex.FindStringSubmatch(err.Error())
	if match == nil {
		return "", false
	}
	out := strings.TrimSpace(troubleshootingLine.ReplaceAllString(match[1], ""))
	if out == "" {
		return "", false
	}
	return out, true
}

func pickFallback() string {
	return fallbackResponses[rand.Intn(len(fallbackResponses))]
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(types.ErrorResponse{Error: message})
}
