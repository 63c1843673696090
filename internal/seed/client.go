package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dsasheet/internal/domain"
)

// ── Seed client ─────────────────────────────────────────────
// Fetches the default question sheet from the public sheet API and
// normalizes it into the nested topic tree used by the rest of the app.

// DefaultSheetURL is the public endpoint for the default SDE sheet.
const DefaultSheetURL = "https://node.codolio.com/api/question-tracker/v1/sheet/public/get-sheet-by-slug/striver-sde-sheet"

// APIQuestion is one flat question record as returned by the sheet API.
type APIQuestion struct {
	ID         string           `json:"_id"`
	Title      string           `json:"title"`
	Topic      string           `json:"topic"`
	SubTopic   string           `json:"subTopic"`
	QuestionID *APIQuestionMeta `json:"questionId"`
	Resource   string           `json:"resource"`
}

// APIQuestionMeta carries the per-platform metadata of a question record.
type APIQuestionMeta struct {
	Difficulty string `json:"difficulty"`
	Platform   string `json:"platform"`
	ProblemURL string `json:"problemUrl"`
}

// SheetConfig holds the ordering hints published with the sheet.
type SheetConfig struct {
	TopicOrder    []string                       `json:"topicOrder"`
	QuestionOrder map[string]map[string][]string `json:"questionOrder"`
}

// APISheet is the decoded sheet payload.
type APISheet struct {
	Sheet struct {
		Config SheetConfig `json:"config"`
	} `json:"sheet"`
	Questions []APIQuestion `json:"questions"`
}

// Client fetches sheets over HTTP.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a Client for the given sheet URL (DefaultSheetURL if empty).
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultSheetURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchDefaultSheet retrieves and decodes the sheet payload.
func (c *Client) FetchDefaultSheet(ctx context.Context) (*APISheet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch sheet: http %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var envelope struct {
		Data *APISheet `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse sheet response: %w", err)
	}
	if envelope.Data == nil || envelope.Data.Questions == nil {
		return nil, fmt.Errorf("invalid sheet response structure")
	}
	return envelope.Data, nil
}

// Adapter bundles fetch + normalize behind the single method the
// sheet service needs for its bootstrap path.
type Adapter struct {
	client *Client
}

func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// FetchSheet returns the normalized topic tree for the default sheet.
func (a *Adapter) FetchSheet(ctx context.Context) ([]domain.Topic, error) {
	api, err := a.client.FetchDefaultSheet(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(api)
}
