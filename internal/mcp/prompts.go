package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("suggest_next_question",
		mcp.WithPromptDescription("Pick the next unsolved question to attempt, based on current progress"),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("Topic name or area to focus on (e.g. Graphs, Dynamic Programming)"),
			mcp.RequiredArgument(),
		),
	), s.handleSuggestNextPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("review_weak_topics",
		mcp.WithPromptDescription("Review the topics with the lowest solved ratio and plan a practice session"),
		mcp.WithArgument("sessionLength",
			mcp.ArgumentDescription("How many questions to plan for (e.g. 3, 5)"),
			mcp.RequiredArgument(),
		),
	), s.handleReviewWeakPrompt)
}

func (s *Server) handleSuggestNextPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := req.Params.Arguments["focus"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Suggest the next question in: %s", focus),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Help me pick the next question to solve, focusing on "%s". Follow these steps:

1. Use sheet_stats to see my overall progress and find the matching topic
2. Use search_questions (and the sheet://topic/{topicId} resource) to list the unsolved questions in that area
3. Pick ONE question: prefer Easy if I have solved little in the topic, otherwise step up to Medium/Hard
4. Use get_question to read any notes I already have on it
5. Explain briefly why this question is the right next step, and link its problemUrl

When I tell you I solved it, call toggle_solved and suggest whether to continue or switch topics.`, focus),
				},
			},
		},
	}, nil
}

func (s *Server) handleReviewWeakPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionLength := req.Params.Arguments["sessionLength"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Plan a %s-question practice session", sessionLength),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Plan a practice session of %s questions on my weakest topics. Follow these steps:

1. Use sheet_stats and rank topics by solved/total ratio, lowest first
2. For the two weakest topics, use search_questions to find unsolved questions
3. Build a session of %s questions mixing difficulties (mostly Easy/Medium, one stretch question)
4. For each pick, note the sub-topic and problemUrl so I can open them in order
5. Save the plan as a text note on the first question with save_text_note

Keep the plan short and concrete.`, sessionLength, sessionLength),
				},
			},
		},
	}, nil
}
