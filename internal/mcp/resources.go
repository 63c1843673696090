package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── sheet://topics ─────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"sheet://topics",
		"All Topics",
		mcp.WithMIMEType("application/json"),
	), s.handleTopicsResource)

	// ── sheet://topic/{topicId} ────────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"sheet://topic/{topicId}",
			"One Topic with Questions",
		),
		s.handleTopicResource,
	)
}

func (s *Server) handleTopicsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type topicSummary struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Solved int    `json:"solved"`
		Total  int    `json:"total"`
	}

	var summaries []topicSummary
	for _, t := range s.sheets.Topics() {
		stats := s.sheets.TopicStats(t.ID)
		summaries = append(summaries, topicSummary{
			ID: t.ID, Title: t.Title, Solved: stats.Solved, Total: stats.Total,
		})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "sheet://topics",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleTopicResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	topicID := strings.TrimPrefix(uri, "sheet://topic/")
	if topicID == "" || topicID == uri {
		return nil, fmt.Errorf("could not extract topicId from URI: %s", uri)
	}

	topic, err := s.sheets.GetTopic(topicID)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(topic, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
