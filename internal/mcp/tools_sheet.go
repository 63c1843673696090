package mcpserver

import (
	"context"
	"fmt"

	"dsasheet/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSheetTools() {
	// ── search_questions ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("search_questions",
		mcp.WithDescription("Search questions across the whole sheet by text and/or difficulty"),
		mcp.WithString("query", mcp.Description("Substring matched against title, platform, topic and sub-topic (optional)")),
		mcp.WithString("difficulty", mcp.Description("Filter: all, easy, medium or hard (optional, default all)")),
	), s.handleSearchQuestions)

	// ── sheet_stats ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("sheet_stats",
		mcp.WithDescription("Solved/total counts for the whole sheet and per topic"),
	), s.handleSheetStats)

	// ── export_sheet ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_sheet",
		mcp.WithDescription("Export the full sheet as a versioned JSON snapshot"),
	), s.handleExportSheet)

	// ── import_sheet (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("import_sheet",
		mcp.WithDescription("🛑 DESTRUCTIVE: Replace the whole sheet with a previously exported snapshot."),
		mcp.WithString("snapshot", mcp.Description("Snapshot JSON as produced by export_sheet"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleImportSheet)

	// ── reset_sheet (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("reset_sheet",
		mcp.WithDescription("🛑 DESTRUCTIVE: Discard all local progress and re-seed from the default sheet."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleResetSheet)

	// ── reload_sheet ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reload_sheet",
		mcp.WithDescription("Retry the initial load after a failed bootstrap (e.g. the seed fetch was offline)"),
	), s.handleReloadSheet)

	// ── write_backup ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("write_backup",
		mcp.WithDescription("Write a snapshot backup file to the backup directory now"),
	), s.handleWriteBackup)

	// ── get_view_state ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_view_state",
		mcp.WithDescription("Get the persisted selection, search query and difficulty filter"),
	), s.handleGetViewState)

	// ── set_view_state ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_view_state",
		mcp.WithDescription("Update the persisted selection, search query and/or difficulty filter"),
		mcp.WithString("selectedTopicId", mcp.Description("Topic to select (optional)")),
		mcp.WithString("searchQuery", mcp.Description("Search query to persist (optional)")),
		mcp.WithString("difficultyFilter", mcp.Description("Filter: all, easy, medium or hard (optional)")),
	), s.handleSetViewState)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleSearchQuestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	filter := domain.DifficultyFilter(req.GetString("difficulty", string(domain.FilterAll)))
	if !domain.ValidFilter(filter) {
		return nil, fmt.Errorf("invalid difficulty filter %q", filter)
	}
	results := s.sheets.FilteredQuestions(query, filter)
	if len(results) == 0 {
		return textResult("No questions matched"), nil
	}
	return jsonResult(results)
}

func (s *Server) handleSheetStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type topicLine struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Solved int    `json:"solved"`
		Total  int    `json:"total"`
	}
	overall := s.sheets.SheetStats()
	out := struct {
		Solved int         `json:"solved"`
		Total  int         `json:"total"`
		Topics []topicLine `json:"topics"`
	}{Solved: overall.Solved, Total: overall.Total}

	for _, t := range s.sheets.Topics() {
		stats := s.sheets.TopicStats(t.ID)
		out.Topics = append(out.Topics, topicLine{ID: t.ID, Title: t.Title, Solved: stats.Solved, Total: stats.Total})
	}
	return jsonResult(out)
}

func (s *Server) handleExportSheet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.sheets.ExportSnapshot(s.codec)
	if err != nil {
		return nil, fmt.Errorf("export sheet: %w", err)
	}
	return textResult(string(data)), nil
}

func (s *Server) handleImportSheet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot := req.GetString("snapshot", "")
	if snapshot == "" {
		return nil, fmt.Errorf("snapshot is required")
	}
	if err := s.sheets.ImportSnapshot(ctx, s.codec, []byte(snapshot)); err != nil {
		return nil, fmt.Errorf("import sheet: %w", err)
	}
	stats := s.sheets.SheetStats()
	return textResult(fmt.Sprintf("Sheet imported: %d questions (%d solved)", stats.Total, stats.Solved)), nil
}

func (s *Server) handleResetSheet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.sheets.ResetToDefault(ctx); err != nil {
		return nil, fmt.Errorf("reset sheet: %w", err)
	}
	stats := s.sheets.SheetStats()
	return textResult(fmt.Sprintf("Sheet reset to default: %d questions", stats.Total)), nil
}

func (s *Server) handleReloadSheet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.sheets.InitSheet(ctx); err != nil {
		return nil, fmt.Errorf("reload sheet: %w", err)
	}
	stats := s.sheets.SheetStats()
	return textResult(fmt.Sprintf("Sheet loaded: %d questions (%d solved)", stats.Total, stats.Solved)), nil
}

func (s *Server) handleWriteBackup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.backups == nil {
		return nil, fmt.Errorf("backups are not configured")
	}
	path, err := s.backups.WriteBackup()
	if err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}
	return textResult(fmt.Sprintf("Backup written to %s", path)), nil
}

func (s *Server) handleGetViewState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.sheets.GetViewState())
}

func (s *Server) handleSetViewState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	changed := false

	if v, ok := args["selectedTopicId"].(string); ok && v != "" {
		if err := s.sheets.SetSelectedTopic(ctx, v); err != nil {
			return nil, fmt.Errorf("select topic: %w", err)
		}
		changed = true
	}
	if v, ok := args["searchQuery"].(string); ok {
		if err := s.sheets.SetSearchQuery(ctx, v); err != nil {
			return nil, fmt.Errorf("set search query: %w", err)
		}
		changed = true
	}
	if v, ok := args["difficultyFilter"].(string); ok && v != "" {
		if err := s.sheets.SetDifficultyFilter(ctx, domain.DifficultyFilter(v)); err != nil {
			return nil, fmt.Errorf("set difficulty filter: %w", err)
		}
		changed = true
	}

	if !changed {
		return nil, fmt.Errorf("provide at least one of selectedTopicId, searchQuery, difficultyFilter")
	}
	return jsonResult(s.sheets.GetViewState())
}
