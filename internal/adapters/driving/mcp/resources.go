package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "kotae://"

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Readiness stages and current dataset details",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "dataset",
		Name:        "dataset",
		Description: "Questions and categories in the current dataset",
		MIMEType:    "application/json",
	}, s.handleDatasetResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "records/{recordId}",
		Name:        "record-answer",
		Description: "Answer text of a specific record",
		MIMEType:    "text/plain",
	}, s.handleRecordResource)
}

func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Dataset == nil {
		return jsonResult(req.Params.URI, struct{}{})
	}
	return jsonResult(req.Params.URI, s.ports.Dataset.Status())
}

func (s *Server) handleDatasetResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type recordInfo struct {
		ID       string `json:"id"`
		Question string `json:"question"`
		Category string `json:"category,omitempty"`
	}

	infos := []recordInfo{}
	if s.ports.Dataset != nil {
		if ds := s.ports.Dataset.Current(); ds != nil {
			infos = make([]recordInfo, len(ds.Records))
			for i := range ds.Records {
				infos[i] = recordInfo{
					ID:       ds.Records[i].ID,
					Question: ds.Records[i].Question,
					Category: ds.Records[i].Category,
				}
			}
		}
	}
	return jsonResult(req.Params.URI, infos)
}

func (s *Server) handleRecordResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Dataset == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractRecordID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ds := s.ports.Dataset.Current()
	if ds == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	for i := range ds.Records {
		if ds.Records[i].ID != id {
			continue
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     ds.Records[i].Question + "\n\n" + ds.Records[i].Answer,
			}},
		}, nil
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRecordID extracts the record ID from a URI like kotae://records/{recordId}.
func extractRecordID(uri string) string {
	const prefix = uriScheme + "records/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
