package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/mudler/xlog"
	"github.com/sashabaranov/go-openai"
)

// Agent runs a bounded reason/act cycle over a chat-completion model. Each
// Run is strictly sequential and self-contained: the only state shared with
// other runs is the (read-only) options.
type Agent struct {
	options *options
}

// Step records one reasoning iteration for diagnostics.
type Step struct {
	Thought     string
	Action      string
	ActionInput string
	Observation string
}

// Result is the final answer plus the intermediate steps that produced it.
type Result struct {
	Output string
	Steps  []Step
}

func New(opts ...Option) (*Agent, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to set options: %w", err)
	}
	return &Agent{options: options}, nil
}

// Stop sequences cut the completion before the model hallucinates a tool
// observation on its own.
var observationStops = []string{"\nObservation:", "\nObservation "}

// Run answers input, consulting tools as the model decides, within the
// configured iteration cap. chatHistory is the already formatted
// "Human:"/"Assistant:" transcript. A *ParseError is returned when the model
// output matches neither the action grammar nor a final answer; the partial
// steps are kept on the result so the caller can inspect the transcript.
func (a *Agent) Run(ctx context.Context, input, chatHistory string) (*Result, error) {
	steps := []Step{}

	for i := 0; i < a.options.maxIterations; i++ {
		prompt, err := renderReactPrompt(a.options.template, a.options.actions, chatHistory, input, steps)
		if err != nil {
			return &Result{Steps: steps}, fmt.Errorf("rendering prompt: %w", err)
		}

		out, err := a.complete(ctx, prompt, observationStops)
		if err != nil {
			return &Result{Steps: steps}, fmt.Errorf("completion: %w", err)
		}

		decision, err := parseOutput(out)
		if err != nil {
			return &Result{Steps: steps}, err
		}

		if decision.final {
			return &Result{Output: decision.answer, Steps: steps}, nil
		}

		xlog.Debug("Agent chose an action", "action", decision.action, "input", decision.actionInput)
		step := Step{
			Thought:     decision.thought,
			Action:      decision.action,
			ActionInput: decision.actionInput,
		}
		step.Observation = a.runAction(ctx, decision.action, decision.actionInput)
		steps = append(steps, step)
	}

	// Out of iterations: ask the model for its best answer given the
	// transcript so far.
	out, err := a.forceAnswer(ctx, input, chatHistory, steps)
	if err != nil {
		return &Result{Steps: steps}, fmt.Errorf("forced answer: %w", err)
	}
	return &Result{Output: out, Steps: steps}, nil
}

func (a *Agent) complete(ctx context.Context, prompt string, stop []string) (string, error) {
	resp, err := a.options.client.CreateChatCompletion(ctx,
		openai.ChatCompletionRequest{
			Model:       a.options.model,
			Temperature: a.options.temperature,
			Stop:        stop,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) != 1 {
		return "", fmt.Errorf("unexpected number of choices: %d", len(resp.Choices))
	}
	return resp.Choices[0].Message.Content, nil
}

// runAction resolves and invokes a tool. Tools report failure as text, and
// anything unexpected escaping one is flattened to text here too: the loop
// only understands observations.
func (a *Agent) runAction(ctx context.Context, name, input string) (observation string) {
	defer func() {
		if r := recover(); r != nil {
			xlog.Error("Tool panicked", "tool", name, "panic", r)
			observation = fmt.Sprintf("error: the %s tool failed unexpectedly", name)
		}
	}()

	action := a.options.actions.Find(name)
	if action == nil {
		return fmt.Sprintf("%s is not a valid tool, try one of [%s]", name, a.options.actions.Names())
	}
	return action.Run(ctx, input)
}

func (a *Agent) forceAnswer(ctx context.Context, input, chatHistory string, steps []Step) (string, error) {
	prompt, err := renderReactPrompt(a.options.template, a.options.actions, chatHistory, input, steps)
	if err != nil {
		return "", err
	}
	prompt += "\n\nYou have no reasoning steps left. Using everything above, give your best final answer to the question now. Reply with the answer text only."

	out, err := a.complete(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	// The model sometimes still wraps the answer in the grammar.
	if idx := strings.LastIndex(out, finalAnswerMark); idx != -1 {
		out = out[idx+len(finalAnswerMark):]
	}
	return strings.TrimSpace(out), nil
}
