package actions

import (
	"github.com/allylabs/allychat/core/types"
	"github.com/allylabs/allychat/pkg/tavily"
)

const (
	ActionSearch      = "tavily_search_results_json"
	ActionSendContact = "send_contact_details"
)

// Config carries the credentials and endpoints the tool set needs.
type Config struct {
	TavilyAPIKey string
	TavilyURL    string // empty for the hosted API
	SMTPAddr     string
	EmailUser    string
	EmailPass    string
}

// Available builds the tool set handed to the agent per request.
func Available(config Config) types.Actions {
	searchOpts := []tavily.Option{}
	if config.TavilyURL != "" {
		searchOpts = append(searchOpts, tavily.WithBaseURL(config.TavilyURL))
	}

	return types.Actions{
		NewSearch(tavily.New(config.TavilyAPIKey, searchOpts...)),
		NewSendContact(config.SMTPAddr, config.EmailUser, config.EmailPass),
	}
}
