package mcpserver

import (
	"context"
	"fmt"

	"dsasheet/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerQuestionTools() {
	// ── get_question ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_question",
		mcp.WithDescription("Get a single question including its notes"),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("questionId", mcp.Description("ID of the question"), mcp.Required()),
	), s.handleGetQuestion)

	// ── add_question ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_question",
		mcp.WithDescription("Add a question to a sub-topic. Difficulty defaults to Medium, platform to leetcode."),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("title", mcp.Description("Question title"), mcp.Required()),
		mcp.WithString("difficulty", mcp.Description("Easy, Medium or Hard (optional)")),
		mcp.WithString("platform", mcp.Description("Platform: leetcode, gfg, tuf, interviewbit (optional)")),
		mcp.WithString("problemUrl", mcp.Description("Link to the problem (optional)")),
		mcp.WithString("resource", mcp.Description("Link to an editorial or video (optional)")),
	), s.handleAddQuestion)

	// ── update_question ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_question",
		mcp.WithDescription("Update fields of a question. Only the provided fields change."),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("questionId", mcp.Description("ID of the question"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title (optional)")),
		mcp.WithString("difficulty", mcp.Description("New difficulty (optional)")),
		mcp.WithString("platform", mcp.Description("New platform (optional)")),
		mcp.WithString("problemUrl", mcp.Description("New problem link (optional)")),
		mcp.WithString("resource", mcp.Description("New resource link (optional)")),
	), s.handleUpdateQuestion)

	// ── delete_question (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("delete_question",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a question, including its notes."),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("questionId", mcp.Description("ID of the question to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteQuestion)

	// ── toggle_solved ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_solved",
		mcp.WithDescription("Flip the solved flag of a question and return the new state"),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("questionId", mcp.Description("ID of the question"), mcp.Required()),
	), s.handleToggleSolved)

	// ── move_question ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_question",
		mcp.WithDescription("Move a question to another sub-topic (possibly in another topic). It is appended at the destination."),
		mcp.WithString("fromTopicId", mcp.Description("ID of the source topic"), mcp.Required()),
		mcp.WithString("fromSubTopicId", mcp.Description("ID of the source sub-topic"), mcp.Required()),
		mcp.WithString("toTopicId", mcp.Description("ID of the destination topic"), mcp.Required()),
		mcp.WithString("toSubTopicId", mcp.Description("ID of the destination sub-topic"), mcp.Required()),
		mcp.WithString("questionId", mcp.Description("ID of the question to move"), mcp.Required()),
	), s.handleMoveQuestion)

	// ── reorder_questions ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_questions",
		mcp.WithDescription("Reorder the questions of a sub-topic. The id list must contain every question id exactly once."),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("questionIds",
			mcp.Description("Comma-separated question IDs in the desired order"),
			mcp.Required(),
		),
	), s.handleReorderQuestions)

	// ── save_text_note ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_text_note",
		mcp.WithDescription("Save the text note of a question, replacing the previous note"),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("questionId", mcp.Description("ID of the question"), mcp.Required()),
		mcp.WithString("note", mcp.Description("Note content (empty clears the note)"), mcp.Required()),
	), s.handleSaveTextNote)

	// ── save_drawing_note ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_drawing_note",
		mcp.WithDescription("Save the drawing note of a question as an opaque serialized scene"),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("subTopicId", mcp.Description("ID of the sub-topic"), mcp.Required()),
		mcp.WithString("questionId", mcp.Description("ID of the question"), mcp.Required()),
		mcp.WithString("drawing", mcp.Description("Serialized drawing payload (empty clears it)"), mcp.Required()),
	), s.handleSaveDrawingNote)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) questionCoords(req mcp.CallToolRequest) (topicID, subTopicID, questionID string, err error) {
	topicID = req.GetString("topicId", "")
	subTopicID = req.GetString("subTopicId", "")
	questionID = req.GetString("questionId", "")
	if topicID == "" || subTopicID == "" || questionID == "" {
		return "", "", "", fmt.Errorf("topicId, subTopicId and questionId are required")
	}
	return topicID, subTopicID, questionID, nil
}

func (s *Server) handleGetQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, subTopicID, questionID, err := s.questionCoords(req)
	if err != nil {
		return nil, err
	}
	q, err := s.sheets.GetQuestion(topicID, subTopicID, questionID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return jsonResult(q)
}

func (s *Server) handleAddQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID := req.GetString("topicId", "")
	subTopicID := req.GetString("subTopicId", "")
	title := req.GetString("title", "")
	if topicID == "" || subTopicID == "" || title == "" {
		return nil, fmt.Errorf("topicId, subTopicId and title are required")
	}

	input := domain.QuestionInput{
		Title:      title,
		Difficulty: domain.Difficulty(req.GetString("difficulty", "")),
		Platform:   domain.Platform(req.GetString("platform", "")),
		ProblemURL: req.GetString("problemUrl", ""),
		Resource:   req.GetString("resource", ""),
	}
	q, err := s.sheets.AddQuestion(ctx, topicID, subTopicID, input)
	if err != nil {
		return nil, fmt.Errorf("add question: %w", err)
	}
	return jsonResult(q)
}

func (s *Server) handleUpdateQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, subTopicID, questionID, err := s.questionCoords(req)
	if err != nil {
		return nil, err
	}

	var upd domain.QuestionUpdate
	args := req.GetArguments()
	if v, ok := args["title"].(string); ok {
		upd.Title = &v
	}
	if v, ok := args["difficulty"].(string); ok {
		d := domain.Difficulty(v)
		upd.Difficulty = &d
	}
	if v, ok := args["platform"].(string); ok {
		p := domain.Platform(v)
		upd.Platform = &p
	}
	if v, ok := args["problemUrl"].(string); ok {
		upd.ProblemURL = &v
	}
	if v, ok := args["resource"].(string); ok {
		upd.Resource = &v
	}

	if err := s.sheets.EditQuestion(ctx, topicID, subTopicID, questionID, upd); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return textResult(fmt.Sprintf("Question %s updated", questionID)), nil
}

func (s *Server) handleDeleteQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, subTopicID, questionID, err := s.questionCoords(req)
	if err != nil {
		return nil, err
	}
	if err := s.sheets.DeleteQuestion(ctx, topicID, subTopicID, questionID); err != nil {
		return nil, fmt.Errorf("delete question: %w", err)
	}
	return textResult(fmt.Sprintf("Question %s deleted", questionID)), nil
}

func (s *Server) handleToggleSolved(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, subTopicID, questionID, err := s.questionCoords(req)
	if err != nil {
		return nil, err
	}
	solved, err := s.sheets.ToggleSolved(ctx, topicID, subTopicID, questionID)
	if err != nil {
		return nil, fmt.Errorf("toggle solved: %w", err)
	}
	state := "unsolved"
	if solved {
		state = "solved"
	}
	return textResult(fmt.Sprintf("Question %s is now %s", questionID, state)), nil
}

func (s *Server) handleMoveQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromTopic := req.GetString("fromTopicId", "")
	fromSub := req.GetString("fromSubTopicId", "")
	toTopic := req.GetString("toTopicId", "")
	toSub := req.GetString("toSubTopicId", "")
	questionID := req.GetString("questionId", "")
	if fromTopic == "" || fromSub == "" || toTopic == "" || toSub == "" || questionID == "" {
		return nil, fmt.Errorf("fromTopicId, fromSubTopicId, toTopicId, toSubTopicId and questionId are required")
	}
	if err := s.sheets.MoveQuestion(ctx, fromTopic, fromSub, toTopic, toSub, questionID); err != nil {
		return nil, fmt.Errorf("move question: %w", err)
	}
	return textResult(fmt.Sprintf("Question %s moved to %s/%s", questionID, toTopic, toSub)), nil
}

func (s *Server) handleReorderQuestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID := req.GetString("topicId", "")
	subTopicID := req.GetString("subTopicId", "")
	ids := splitIDs(req.GetString("questionIds", ""))
	if topicID == "" || subTopicID == "" || len(ids) == 0 {
		return nil, fmt.Errorf("topicId, subTopicId and questionIds are required")
	}
	if err := s.sheets.ReorderQuestions(ctx, topicID, subTopicID, ids); err != nil {
		return nil, fmt.Errorf("reorder questions: %w", err)
	}
	return textResult("Questions reordered"), nil
}

func (s *Server) handleSaveTextNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, subTopicID, questionID, err := s.questionCoords(req)
	if err != nil {
		return nil, err
	}
	note := req.GetString("note", "")
	if err := s.sheets.SaveTextNote(ctx, topicID, subTopicID, questionID, note); err != nil {
		return nil, fmt.Errorf("save text note: %w", err)
	}
	return textResult(fmt.Sprintf("Note saved on question %s", questionID)), nil
}

func (s *Server) handleSaveDrawingNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, subTopicID, questionID, err := s.questionCoords(req)
	if err != nil {
		return nil, err
	}
	drawing := req.GetString("drawing", "")
	if err := s.sheets.SaveDrawingNote(ctx, topicID, subTopicID, questionID, drawing); err != nil {
		return nil, fmt.Errorf("save drawing note: %w", err)
	}
	return textResult(fmt.Sprintf("Drawing saved on question %s", questionID)), nil
}
