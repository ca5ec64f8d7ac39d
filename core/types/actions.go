package types

import (
	"context"
	"fmt"
	"strings"
)

// Action is a tool the agent can invoke while reasoning. Input is the raw
// "Action Input" text produced by the model. The result is always a string:
// failures are reported as human-readable text, never as an error value, so
// the agent loop can feed them back as observations.
type Action interface {
	Run(ctx context.Context, input string) string
	Definition() ActionDefinition
}

type ActionDefinition struct {
	Name        ActionDefinitionName
	Description string
}

type ActionDefinitionName string

func (a ActionDefinitionName) Is(name string) bool {
	return string(a) == name
}

func (a ActionDefinitionName) String() string {
	return string(a)
}

type Actions []Action

func (a Actions) Find(name string) Action {
	for _, action := range a {
		if action.Definition().Name.Is(name) {
			return action
		}
	}
	return nil
}

// Names returns the comma-separated tool names for the prompt.
func (a Actions) Names() string {
	names := []string{}
	for _, action := range a {
		names = append(names, action.Definition().Name.String())
	}
	return strings.Join(names, ", ")
}

// Describe renders one "name: description" line per tool for the prompt.
func (a Actions) Describe() string {
	lines := []string{}
	for _, action := range a {
		def := action.Definition()
		lines = append(lines, fmt.Sprintf("%s: %s", def.Name, def.Description))
	}
	return strings.Join(lines, "\n")
}
