package domain

import "errors"

type Difficulty string

const (
	DifficultyEasy    Difficulty = "Easy"
	DifficultyMedium  Difficulty = "Medium"
	DifficultyHard    Difficulty = "Hard"
	DifficultyUnknown Difficulty = "Unknown"
)

type Platform string

const (
	PlatformLeetCode     Platform = "leetcode"
	PlatformGFG          Platform = "gfg"
	PlatformTUF          Platform = "tuf"
	PlatformInterviewBit Platform = "interviewbit"
	PlatformUnknown      Platform = "unknown"
)

// DifficultyFilter narrows question listings. FilterAll disables the filter.
type DifficultyFilter string

const (
	FilterAll    DifficultyFilter = "all"
	FilterEasy   DifficultyFilter = "easy"
	FilterMedium DifficultyFilter = "medium"
	FilterHard   DifficultyFilter = "hard"
)

// ValidFilter reports whether f is one of the known difficulty filters.
func ValidFilter(f DifficultyFilter) bool {
	switch f {
	case FilterAll, FilterEasy, FilterMedium, FilterHard:
		return true
	}
	return false
}

// Question is a single tracked problem. DrawingNote is an opaque
// image payload (data URL); the core stores it without interpreting it.
type Question struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Difficulty  Difficulty `json:"difficulty"`
	Platform    Platform   `json:"platform"`
	ProblemURL  string     `json:"problemUrl,omitempty"`
	Resource    string     `json:"resource,omitempty"`
	IsSolved    bool       `json:"isSolved"`
	TextNote    string     `json:"textNote,omitempty"`
	DrawingNote string     `json:"drawingNote,omitempty"`
}

// SubTopic owns an ordered sequence of questions. Order is user-controlled.
type SubTopic struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Topic owns an ordered sequence of sub-topics.
type Topic struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	SubTopics []SubTopic `json:"subTopics"`
}

// Clone returns a deep copy of the sub-topic.
func (st SubTopic) Clone() SubTopic {
	out := st
	out.Questions = make([]Question, len(st.Questions))
	copy(out.Questions, st.Questions)
	return out
}

// Clone returns a deep copy of the topic.
func (t Topic) Clone() Topic {
	out := t
	out.SubTopics = make([]SubTopic, len(t.SubTopics))
	for i, st := range t.SubTopics {
		out.SubTopics[i] = st.Clone()
	}
	return out
}

// CloneTopics deep-copies a full topic sequence.
func CloneTopics(topics []Topic) []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		out[i] = t.Clone()
	}
	return out
}

// TopicStats is the solved/total summary for a topic (or the whole sheet).
type TopicStats struct {
	Solved int `json:"solved"`
	Total  int `json:"total"`
}

// FilteredQuestion is a search hit: the question plus its location in the tree.
type FilteredQuestion struct {
	Question
	TopicID       string `json:"topicId"`
	TopicTitle    string `json:"topic"`
	SubTopicID    string `json:"subTopicId"`
	SubTopicTitle string `json:"subTopic"`
}

// QuestionInput carries the caller-supplied fields for a new question.
// Title is required; difficulty and platform fall back to Medium/leetcode.
type QuestionInput struct {
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Platform   Platform   `json:"platform,omitempty"`
	ProblemURL string     `json:"problemUrl,omitempty"`
	Resource   string     `json:"resource,omitempty"`
}

// QuestionUpdate is a partial update; nil fields are left untouched.
type QuestionUpdate struct {
	Title      *string     `json:"title,omitempty"`
	Difficulty *Difficulty `json:"difficulty,omitempty"`
	Platform   *Platform   `json:"platform,omitempty"`
	ProblemURL *string     `json:"problemUrl,omitempty"`
	Resource   *string     `json:"resource,omitempty"`
}

// PersistedSheet is the stored form of the document. The view-state fields
// are persisted for convenience only; loaders must tolerate their absence.
type PersistedSheet struct {
	Topics           []Topic          `json:"topics"`
	SelectedTopicID  string           `json:"selectedTopicId,omitempty"`
	SearchQuery      string           `json:"searchQuery,omitempty"`
	DifficultyFilter DifficultyFilter `json:"difficultyFilter,omitempty"`
}

// SheetStore is the persistence gateway for the single sheet document.
// Implementations decide the medium (SQLite row, JSON file, ...).
type SheetStore interface {
	// Load returns the stored document, or ErrNoDocument if none exists
	// (a malformed stored document counts as absent).
	Load() (*PersistedSheet, error)
	Save(sheet *PersistedSheet) error
	Clear() error
}

var (
	// ErrNotFound — an operation targeted an id that is not in the document.
	ErrNotFound = errors.New("not found")
	// ErrNoDocument — the store holds no (usable) document.
	ErrNoDocument = errors.New("no document")
	// ErrLoading — the document is not authoritative yet (seed in flight).
	ErrLoading = errors.New("sheet is loading")
	// ErrBadOrder — a reorder was not an exact permutation of current children.
	ErrBadOrder = errors.New("order is not a permutation of current ids")
	// ErrBadSnapshot — an import payload failed shape validation.
	ErrBadSnapshot = errors.New("invalid snapshot")
)
