package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

const defaultLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"space separated keywords; every keyword must appear in the question or answer"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	State   string               `json:"state"`
	Count   int                  `json:"count"`
	Total   int                  `json:"total"`
	Message string               `json:"message,omitempty"`
	Results []SearchResultOutput `json:"results"`
}

// SearchResultOutput is one matching question and answer.
type SearchResultOutput struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find questions and answers containing all of the given keywords",
	}, s.handleSearch)
}

// handleSearch runs the query. Not-ready and empty queries are reported in
// the output state rather than as tool errors.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	result, err := s.ports.Search.Search(ctx, input.Query)
	if err != nil && result.State != domain.StateNotReady {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		State:   string(result.State),
		Total:   result.Count(),
		Results: []SearchResultOutput{},
	}

	switch result.State {
	case domain.StateNoQuery:
		output.Message = "Enter one or more keywords."
	case domain.StateNotReady:
		output.Message = "The dataset is still loading."
		if err != nil && !errors.Is(err, domain.ErrNotReady) {
			output.Message = "The dataset is unavailable: " + err.Error()
		}
	case domain.StateMatched:
		if result.NoResults() {
			output.Message = "No matching questions."
		}
	}

	records := result.Records
	if len(records) > limit {
		records = records[:limit]
	}
	for i := range records {
		output.Results = append(output.Results, SearchResultOutput{
			ID:       records[i].ID,
			Question: records[i].Question,
			Answer:   records[i].Answer,
			Category: records[i].Category,
		})
	}
	output.Count = len(output.Results)

	return nil, output, nil
}
