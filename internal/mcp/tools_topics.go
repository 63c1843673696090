package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTopicTools() {
	// ── list_topics ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_topics",
		mcp.WithDescription("List all topics with their sub-topics and solved/total stats"),
	), s.handleListTopics)

	// ── add_topic ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_topic",
		mcp.WithDescription("Add a new topic to the sheet"),
		mcp.WithString("title", mcp.Description("Title of the new topic"), mcp.Required()),
	), s.handleAddTopic)

	// ── rename_topic ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_topic",
		mcp.WithDescription("Rename an existing topic"),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title"), mcp.Required()),
	), s.handleRenameTopic)

	// ── delete_topic (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_topic",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a topic and every question under it."),
		mcp.WithString("topicId", mcp.Description("ID of the topic to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTopic)

	// ── add_subtopic ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_subtopic",
		mcp.WithDescription("Add a new sub-topic to a topic"),
		mcp.WithString("topicId", mcp.Description("ID of the parent topic"), mcp.Required()),
		mcp.WithString("title", mcp.Description("Title of the new sub-topic"), mcp.Required()),
	), s.handleAddSubTopic)

	// ── rename_subtopic ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_subtopic",
		mcp.WithDescription("Rename an existing sub-topic"),
		mcp.WithString("topicId", mcp.Description("ID of the parent topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title"), mcp.Required()),
	), s.handleRenameSubTopic)

	// ── delete_subtopic (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("delete_subtopic",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a sub-topic and every question inside it."),
		mcp.WithString("topicId", mcp.Description("ID of the parent topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteSubTopic)

	// ── reorder_topics ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_topics",
		mcp.WithDescription("Reorder topics. The id list must contain every topic id exactly once."),
		mcp.WithString("topicIds",
			mcp.Description("Comma-separated topic IDs in the desired order"),
			mcp.Required(),
		),
	), s.handleReorderTopics)

	// ── reorder_subtopics ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_subtopics",
		mcp.WithDescription("Reorder the sub-topics of a topic. The id list must contain every sub-topic id exactly once."),
		mcp.WithString("topicId", mcp.Description("ID of the parent topic"), mcp.Required()),
		mcp.WithString("subTopicIds",
			mcp.Description("Comma-separated sub-topic IDs in the desired order"),
			mcp.Required(),
		),
	), s.handleReorderSubTopics)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListTopics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type subSummary struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Questions int    `json:"questions"`
	}
	type topicSummary struct {
		ID        string       `json:"id"`
		Title     string       `json:"title"`
		Solved    int          `json:"solved"`
		Total     int          `json:"total"`
		SubTopics []subSummary `json:"subTopics"`
	}

	var summaries []topicSummary
	for _, t := range s.sheets.Topics() {
		stats := s.sheets.TopicStats(t.ID)
		ts := topicSummary{ID: t.ID, Title: t.Title, Solved: stats.Solved, Total: stats.Total}
		for _, st := range t.SubTopics {
			ts.SubTopics = append(ts.SubTopics, subSummary{
				ID: st.ID, Title: st.Title, Questions: len(st.Questions),
			})
		}
		summaries = append(summaries, ts)
	}
	return jsonResult(summaries)
}

func (s *Server) handleAddTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	topic, err := s.sheets.AddTopic(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("add topic: %w", err)
	}
	return jsonResult(topic)
}

func (s *Server) handleRenameTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID := req.GetString("topicId", "")
	title := req.GetString("title", "")
	if topicID == "" || title == "" {
		return nil, fmt.Errorf("topicId and title are required")
	}
	if err := s.sheets.EditTopic(ctx, topicID, title); err != nil {
		return nil, fmt.Errorf("rename topic: %w", err)
	}
	return textResult(fmt.Sprintf("Topic %s renamed to %q", topicID, title)), nil
}

func (s *Server) handleDeleteTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID := req.GetString("topicId", "")
	if topicID == "" {
		return nil, fmt.Errorf("topicId is required")
	}
	if err := s.sheets.DeleteTopic(ctx, topicID); err != nil {
		return nil, fmt.Errorf("delete topic: %w", err)
	}
	return textResult(fmt.Sprintf("Topic %s deleted", topicID)), nil
}

func (s *Server) handleAddSubTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID := req.GetString("topicId", "")
	title := req.GetString("title", "")
	if topicID == "" || title == "" {
		return nil, fmt.Errorf("topicId and title are required")
	}
	sub, err := s.sheets.AddSubTopic(ctx, topicID, title)
	if err != nil {
		return nil, fmt.Errorf("add sub-topic: %w", err)
	}
	return jsonResult(sub)
}

func (s *Server) handleRenameSubTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID := req.GetString("topicId", "")
	subTopicID := req.GetString("subTopicId", "")
	title := req.GetString("title", "")
	if topicID == "" || subTopicID == "" || title == "" {
		return nil, fmt.Errorf("topicId, subTopicId and title are required")
	}
	if err := s.sheets.EditSubTopic(ctx, topicID, subTopicID, title); err != nil {
		return nil, fmt.Errorf("rename sub-topic: %w", err)
	}
	return textResult(fmt.Sprintf("Sub-topic %s renamed to %q", subTopicID, title)), nil
}

func (s *Server) handleDeleteSubTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID := req.GetString("topicId", "")
	subTopicID := req.GetString("subTopicId", "")
	if topicID == "" || subTopicID == "" {
		return nil, fmt.Errorf("topicId and subTopicId are required")
	}
	if err := s.sheets.DeleteSubTopic(ctx, topicID, subTopicID); err != nil {
		return nil, fmt.Errorf("delete sub-topic: %w", err)
	}
	return textResult(fmt.Sprintf("Sub-topic %s deleted", subTopicID)), nil
}

func (s *Server) handleReorderTopics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("topicIds", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("topicIds is required")
	}
	if err := s.sheets.ReorderTopics(ctx, ids); err != nil {
		return nil, fmt.Errorf("reorder topics: %w", err)
	}
	return textResult("Topics reordered"), nil
}

func (s *Server) handleReorderSubTopics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID := req.GetString("topicId", "")
	ids := splitIDs(req.GetString("subTopicIds", ""))
	if topicID == "" || len(ids) == 0 {
		return nil, fmt.Errorf("topicId and subTopicIds are required")
	}
	if err := s.sheets.ReorderSubTopics(ctx, topicID, ids); err != nil {
		return nil, fmt.Errorf("reorder sub-topics: %w", err)
	}
	return textResult("Sub-topics reordered"), nil
}
