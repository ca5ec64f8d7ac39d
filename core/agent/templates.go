package agent

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/allylabs/allychat/core/types"
)

func templateBase(templateName, templateText string) (*template.Template, error) {
	return template.New(templateName).Funcs(sprig.FuncMap()).Parse(templateText)
}

func templateExecute(tmpl *template.Template, data interface{}) (string, error) {
	prompt := bytes.NewBuffer([]byte{})
	if err := tmpl.Execute(prompt, data); err != nil {
		return "", err
	}
	return prompt.String(), nil
}

// renderReactPrompt fills the reasoning template with the tool set, the
// formatted conversation history, the new input and the scratchpad of
// previous thought/action/observation triples.
func renderReactPrompt(templ string, actions types.Actions, chatHistory, input string, steps []Step) (string, error) {
	promptTemplate, err := templateBase("react", templ)
	if err != nil {
		return "", err
	}

	return templateExecute(promptTemplate, struct {
		Tools       string
		ToolNames   string
		ChatHistory string
		Input       string
		Scratchpad  string
	}{
		Tools:       actions.Describe(),
		ToolNames:   actions.Names(),
		ChatHistory: chatHistory,
		Input:       input,
		Scratchpad:  renderScratchpad(steps),
	})
}

func renderScratchpad(steps []Step) string {
	if len(steps) == 0 {
		return ""
	}

	sb := strings.Builder{}
	for _, step := range steps {
		if step.Thought != "" {
			fmt.Fprintf(&sb, "%s\n", step.Thought)
		}
		fmt.Fprintf(&sb, "Action: %s\nAction Input: %s\nObservation: %s\n", step.Action, step.ActionInput, step.Observation)
	}
	sb.WriteString("Thought: ")
	return sb.String()
}

// ReActChatTemplate is the reference reasoning template, kept here as the
// canonical copy of what the prompt store serves. The runtime always pulls
// the template from the store (see PromptStore); this constant is used by
// tests and documentation.
const ReActChatTemplate = `Assistant is a large language model acting as the gaming assistant for the ROG Xbox Ally and Xbox Ally X handhelds.

Assistant answers questions about the consoles, their hardware, Game Pass and gaming in general. When up to date information is needed, or when a visitor wants to be contacted or to receive a demo Game Pass code, Assistant uses one of the tools below.

TOOLS:
------

Assistant has access to the following tools:

{{.Tools}}

To use a tool, please use the following format:

` + "```" + `
Thought: Do I need to use a tool? Yes
Action: the action to take, should be one of [{{.ToolNames}}]
Action Input: the input to the action
Observation: the result of the action
` + "```" + `

When you have a response to say to the Human, or if you do not need to use a tool, you MUST use the format:

` + "```" + `
Thought: Do I need to use a tool? No
Final Answer: [your response here]
` + "```" + `

Begin!

Previous conversation history:
{{.ChatHistory}}

New input: {{.Input}}
{{.Scratchpad}}`
