package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/allylabs/allychat/core/types"
	"github.com/allylabs/allychat/pkg/tavily"
	"github.com/mudler/xlog"
)

// searchResults is the fixed number of hits requested per query.
const searchResults = 3

func NewSearch(client *tavily.Client) *SearchAction {
	return &SearchAction{client: client}
}

type SearchAction struct {
	client *tavily.Client
}

func (a *SearchAction) Run(ctx context.Context, input string) string {
	query := strings.TrimSpace(input)
	if query == "" {
		return "error: the search query is empty"
	}

	res, err := a.client.Search(ctx, query, searchResults)
	if err != nil {
		xlog.Error("Search failed", "query", query, "error", err)
		return fmt.Sprintf("error searching the web: %v", err)
	}
	if len(res) == 0 {
		return "No results found."
	}

	results := ""
	for i, r := range res {
		results += fmt.Sprintf("*********** RESULT %d\nurl:     %s\ntitle:   %s\nsnippet: %s\n", i, r.URL, r.Title, r.Content)
	}
	return results
}

func (a *SearchAction) Definition() types.ActionDefinition {
	return types.ActionDefinition{
		Name:        ActionSearch,
		Description: "A search engine for up to date information about the ROG Xbox Ally handhelds, games, prices and availability. Input should be a plain text search query.",
	}
}
