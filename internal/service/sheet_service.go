package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dsasheet/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Sheet Service — the document model and every mutation on it
// ─────────────────────────────────────────────────────────────

// SeedSource provides the default question tree for first run / reset.
type SeedSource interface {
	FetchSheet(ctx context.Context) ([]domain.Topic, error)
}

// SheetService owns the canonical topic tree and its view state.
//
// One RWMutex gives the single-writer discipline: a mutation mutates the
// tree and persists it before the write lock is released, so readers only
// ever observe a fully pre- or post-mutation document. Read accessors
// return deep copies so callers can't alias internal state.
type SheetService struct {
	store   domain.SheetStore
	seed    SeedSource
	emitter EventEmitter

	mu               sync.RWMutex
	topics           []domain.Topic
	selectedTopicID  string
	searchQuery      string
	difficultyFilter domain.DifficultyFilter

	loading bool
	ready   bool
	loadErr error
}

// NewSheetService creates a SheetService. The document is empty until
// InitSheet loads it from the store or the seed source.
func NewSheetService(store domain.SheetStore, seed SeedSource, emitter EventEmitter) *SheetService {
	return &SheetService{
		store:            store,
		seed:             seed,
		emitter:          emitter,
		difficultyFilter: domain.FilterAll,
	}
}

// ── Bootstrap ──────────────────────────────────────────────

// InitSheet loads the persisted document, falling back to the seed
// source when none exists. Mutations issued while loading are rejected
// with ErrLoading; the document is installed atomically at the end.
func (s *SheetService) InitSheet(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrLoading
	}
	s.loading = true
	s.loadErr = nil
	s.mu.Unlock()

	if saved, err := s.store.Load(); err == nil {
		s.install(ctx, saved.Topics, saved)
		return nil
	} else if err != domain.ErrNoDocument {
		return s.failLoad(ctx, fmt.Errorf("load sheet: %w", err))
	}

	topics, err := s.seed.FetchSheet(ctx)
	if err != nil {
		return s.failLoad(ctx, fmt.Errorf("seed sheet: %w", err))
	}

	s.install(ctx, topics, nil)
	return nil
}

// ResetToDefault clears storage and refetches the seed sheet. The stored
// document is only cleared here, on explicit intent.
func (s *SheetService) ResetToDefault(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrLoading
	}
	s.loading = true
	s.loadErr = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return s.failLoad(ctx, fmt.Errorf("clear sheet: %w", err))
	}

	topics, err := s.seed.FetchSheet(ctx)
	if err != nil {
		return s.failLoad(ctx, fmt.Errorf("seed sheet: %w", err))
	}

	s.install(ctx, topics, nil)
	return nil
}

// install replaces the document and leaves the loading state. saved, when
// non-nil, carries persisted view state to restore.
func (s *SheetService) install(ctx context.Context, topics []domain.Topic, saved *domain.PersistedSheet) {
	s.mu.Lock()
	s.topics = topics
	s.searchQuery = ""
	s.difficultyFilter = domain.FilterAll
	s.selectedTopicID = ""
	if saved != nil {
		s.searchQuery = saved.SearchQuery
		if domain.ValidFilter(saved.DifficultyFilter) {
			s.difficultyFilter = saved.DifficultyFilter
		}
		if s.findTopic(saved.SelectedTopicID) != nil {
			s.selectedTopicID = saved.SelectedTopicID
		}
	}
	if s.selectedTopicID == "" && len(s.topics) > 0 {
		s.selectedTopicID = s.topics[0].ID
	}
	s.loading = false
	s.ready = true
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.emitter.Emit(ctx, "sheet:loaded", map[string]int{"topics": len(topics)})
}

func (s *SheetService) failLoad(ctx context.Context, err error) error {
	s.mu.Lock()
	s.loading = false
	s.loadErr = err
	s.mu.Unlock()

	s.emitter.Emit(ctx, "sheet:load-failed", err.Error())
	return err
}

// Loading reports whether a load/seed is in flight.
func (s *SheetService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LoadError returns the most recent bootstrap failure, if any.
func (s *SheetService) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// ── Read accessors ─────────────────────────────────────────

// Topics returns a deep copy of the full topic tree in document order.
func (s *SheetService) Topics() []domain.Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneTopics(s.topics)
}

// GetTopic returns a copy of the topic, or ErrNotFound.
func (s *SheetService) GetTopic(topicID string) (*domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.findTopic(topicID)
	if t == nil {
		return nil, domain.ErrNotFound
	}
	out := t.Clone()
	return &out, nil
}

// GetSubTopic returns a copy of the sub-topic, or ErrNotFound.
func (s *SheetService) GetSubTopic(topicID, subTopicID string) (*domain.SubTopic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.findSubTopic(topicID, subTopicID)
	if st == nil {
		return nil, domain.ErrNotFound
	}
	out := st.Clone()
	return &out, nil
}

// GetQuestion returns a copy of the question, or ErrNotFound.
func (s *SheetService) GetQuestion(topicID, subTopicID, questionID string) (*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := s.findQuestion(topicID, subTopicID, questionID)
	if q == nil {
		return nil, domain.ErrNotFound
	}
	out := *q
	return &out, nil
}

// TopicStats sums solved/total over every question under the topic.
// An unknown or childless topic yields (0, 0).
func (s *SheetService) TopicStats(topicID string) domain.TopicStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.TopicStats
	t := s.findTopic(topicID)
	if t == nil {
		return stats
	}
	for _, st := range t.SubTopics {
		for _, q := range st.Questions {
			stats.Total++
			if q.IsSolved {
				stats.Solved++
			}
		}
	}
	return stats
}

// SheetStats sums solved/total over the whole document.
func (s *SheetService) SheetStats() domain.TopicStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.TopicStats
	for _, t := range s.topics {
		for _, st := range t.SubTopics {
			for _, q := range st.Questions {
				stats.Total++
				if q.IsSolved {
					stats.Solved++
				}
			}
		}
	}
	return stats
}

// FilteredQuestions flattens the tree into search hits in document order.
// Both filters are AND-combined: difficulty must match when the filter is
// not "all", and the query (case-insensitive) must appear in the question
// title, platform, topic title, or sub-topic title when non-empty.
// The result is recomputed from scratch on every call.
func (s *SheetService) FilteredQuestions(query string, filter domain.DifficultyFilter) []domain.FilteredQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	var results []domain.FilteredQuestion
	for _, t := range s.topics {
		for _, st := range t.SubTopics {
			for _, q := range st.Questions {
				if filter != "" && filter != domain.FilterAll &&
					!strings.EqualFold(string(q.Difficulty), string(filter)) {
					continue
				}
				if needle != "" && !matchesQuery(q, t.Title, st.Title, needle) {
					continue
				}
				results = append(results, domain.FilteredQuestion{
					Question:      q,
					TopicID:       t.ID,
					TopicTitle:    t.Title,
					SubTopicID:    st.ID,
					SubTopicTitle: st.Title,
				})
			}
		}
	}
	return results
}

func matchesQuery(q domain.Question, topicTitle, subTopicTitle, needle string) bool {
	return strings.Contains(strings.ToLower(q.Title), needle) ||
		strings.Contains(strings.ToLower(string(q.Platform)), needle) ||
		strings.Contains(strings.ToLower(topicTitle), needle) ||
		strings.Contains(strings.ToLower(subTopicTitle), needle)
}

// ViewState is the UI-facing selection/filter state.
type ViewState struct {
	SelectedTopicID  string                  `json:"selectedTopicId"`
	SearchQuery      string                  `json:"searchQuery"`
	DifficultyFilter domain.DifficultyFilter `json:"difficultyFilter"`
}

// GetViewState returns the current selection/filter state.
func (s *SheetService) GetViewState() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ViewState{
		SelectedTopicID:  s.selectedTopicID,
		SearchQuery:      s.searchQuery,
		DifficultyFilter: s.difficultyFilter,
	}
}

// ── View-state mutations ───────────────────────────────────

// SetSelectedTopic points the selection at an existing topic.
func (s *SheetService) SetSelectedTopic(ctx context.Context, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}
	if s.findTopic(topicID) == nil {
		return domain.ErrNotFound
	}
	s.selectedTopicID = topicID
	s.persistLocked(ctx)
	return nil
}

// SetSearchQuery stores the active search query.
func (s *SheetService) SetSearchQuery(ctx context.Context, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}
	s.searchQuery = query
	s.persistLocked(ctx)
	return nil
}

// SetDifficultyFilter stores the active difficulty filter.
func (s *SheetService) SetDifficultyFilter(ctx context.Context, filter domain.DifficultyFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}
	if !domain.ValidFilter(filter) {
		return fmt.Errorf("unknown difficulty filter %q", filter)
	}
	s.difficultyFilter = filter
	s.persistLocked(ctx)
	return nil
}

// ── Topic mutations ────────────────────────────────────────

// AddTopic appends a new empty topic and returns it.
func (s *SheetService) AddTopic(ctx context.Context, title string) (*domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return nil, err
	}

	t := domain.Topic{
		ID:        uuid.New().String(),
		Title:     title,
		SubTopics: []domain.SubTopic{},
	}
	s.topics = append(s.topics, t)
	if s.selectedTopicID == "" {
		s.selectedTopicID = t.ID
	}
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	out := t.Clone()
	return &out, nil
}

// EditTopic replaces a topic's title.
func (s *SheetService) EditTopic(ctx context.Context, topicID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	t := s.findTopic(topicID)
	if t == nil {
		return domain.ErrNotFound
	}
	t.Title = title
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// DeleteTopic removes a topic and everything under it. If the deleted
// topic was selected, selection falls back to the first remaining topic.
func (s *SheetService) DeleteTopic(ctx context.Context, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	idx := -1
	for i := range s.topics {
		if s.topics[i].ID == topicID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}
	s.topics = append(s.topics[:idx], s.topics[idx+1:]...)

	if s.selectedTopicID == topicID {
		s.selectedTopicID = ""
		if len(s.topics) > 0 {
			s.selectedTopicID = s.topics[0].ID
		}
	}
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// ── Sub-topic mutations ────────────────────────────────────

// AddSubTopic appends a new empty sub-topic to a topic and returns it.
func (s *SheetService) AddSubTopic(ctx context.Context, topicID, title string) (*domain.SubTopic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return nil, err
	}

	t := s.findTopic(topicID)
	if t == nil {
		return nil, domain.ErrNotFound
	}
	st := domain.SubTopic{
		ID:        uuid.New().String(),
		Title:     title,
		Questions: []domain.Question{},
	}
	t.SubTopics = append(t.SubTopics, st)
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	out := st.Clone()
	return &out, nil
}

// EditSubTopic replaces a sub-topic's title.
func (s *SheetService) EditSubTopic(ctx context.Context, topicID, subTopicID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	st := s.findSubTopic(topicID, subTopicID)
	if st == nil {
		return domain.ErrNotFound
	}
	st.Title = title
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// DeleteSubTopic removes a sub-topic and its questions.
func (s *SheetService) DeleteSubTopic(ctx context.Context, topicID, subTopicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	t := s.findTopic(topicID)
	if t == nil {
		return domain.ErrNotFound
	}
	for i := range t.SubTopics {
		if t.SubTopics[i].ID == subTopicID {
			t.SubTopics = append(t.SubTopics[:i], t.SubTopics[i+1:]...)
			s.persistLocked(ctx)
			s.emitChanged(ctx)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Question mutations ─────────────────────────────────────

// AddQuestion appends a new question to a sub-topic and returns it.
func (s *SheetService) AddQuestion(ctx context.Context, topicID, subTopicID string, input domain.QuestionInput) (*domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("question title is required")
	}

	st := s.findSubTopic(topicID, subTopicID)
	if st == nil {
		return nil, domain.ErrNotFound
	}

	q := domain.Question{
		ID:         uuid.New().String(),
		Title:      input.Title,
		Difficulty: input.Difficulty,
		Platform:   input.Platform,
		ProblemURL: input.ProblemURL,
		Resource:   input.Resource,
		IsSolved:   false,
	}
	if q.Difficulty == "" {
		q.Difficulty = domain.DifficultyMedium
	}
	if q.Platform == "" {
		q.Platform = domain.PlatformLeetCode
	}

	st.Questions = append(st.Questions, q)
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	out := q
	return &out, nil
}

// EditQuestion shallow-merges the non-nil update fields into a question.
func (s *SheetService) EditQuestion(ctx context.Context, topicID, subTopicID, questionID string, upd domain.QuestionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	q := s.findQuestion(topicID, subTopicID, questionID)
	if q == nil {
		return domain.ErrNotFound
	}
	if upd.Title != nil {
		q.Title = *upd.Title
	}
	if upd.Difficulty != nil {
		q.Difficulty = *upd.Difficulty
	}
	if upd.Platform != nil {
		q.Platform = *upd.Platform
	}
	if upd.ProblemURL != nil {
		q.ProblemURL = *upd.ProblemURL
	}
	if upd.Resource != nil {
		q.Resource = *upd.Resource
	}
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// DeleteQuestion removes a question from its sub-topic.
func (s *SheetService) DeleteQuestion(ctx context.Context, topicID, subTopicID, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	st := s.findSubTopic(topicID, subTopicID)
	if st == nil {
		return domain.ErrNotFound
	}
	for i := range st.Questions {
		if st.Questions[i].ID == questionID {
			st.Questions = append(st.Questions[:i], st.Questions[i+1:]...)
			s.persistLocked(ctx)
			s.emitChanged(ctx)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ToggleSolved flips a question's solved flag and returns the new value.
func (s *SheetService) ToggleSolved(ctx context.Context, topicID, subTopicID, questionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return false, err
	}

	q := s.findQuestion(topicID, subTopicID, questionID)
	if q == nil {
		return false, domain.ErrNotFound
	}
	q.IsSolved = !q.IsSolved
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return q.IsSolved, nil
}

// SaveTextNote sets a question's free-form note.
func (s *SheetService) SaveTextNote(ctx context.Context, topicID, subTopicID, questionID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	q := s.findQuestion(topicID, subTopicID, questionID)
	if q == nil {
		return domain.ErrNotFound
	}
	q.TextNote = note
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// SaveDrawingNote sets a question's freehand note (opaque image payload).
func (s *SheetService) SaveDrawingNote(ctx context.Context, topicID, subTopicID, questionID, drawing string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	q := s.findQuestion(topicID, subTopicID, questionID)
	if q == nil {
		return domain.ErrNotFound
	}
	q.DrawingNote = drawing
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// ── Reordering ─────────────────────────────────────────────

// ReorderTopics rewrites the topic order. orderedIDs must be an exact
// permutation of the current topic ids; anything else is rejected with
// ErrBadOrder and the document is left untouched.
func (s *SheetService) ReorderTopics(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	byID := make(map[string]*domain.Topic, len(s.topics))
	for i := range s.topics {
		byID[s.topics[i].ID] = &s.topics[i]
	}
	reordered, err := permute(byID, orderedIDs)
	if err != nil {
		return err
	}
	s.topics = reordered
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// ReorderSubTopics rewrites the sub-topic order inside one topic.
func (s *SheetService) ReorderSubTopics(ctx context.Context, topicID string, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	t := s.findTopic(topicID)
	if t == nil {
		return domain.ErrNotFound
	}
	byID := make(map[string]*domain.SubTopic, len(t.SubTopics))
	for i := range t.SubTopics {
		byID[t.SubTopics[i].ID] = &t.SubTopics[i]
	}
	reordered, err := permute(byID, orderedIDs)
	if err != nil {
		return err
	}
	t.SubTopics = reordered
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// ReorderQuestions rewrites the question order inside one sub-topic.
func (s *SheetService) ReorderQuestions(ctx context.Context, topicID, subTopicID string, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	st := s.findSubTopic(topicID, subTopicID)
	if st == nil {
		return domain.ErrNotFound
	}
	byID := make(map[string]*domain.Question, len(st.Questions))
	for i := range st.Questions {
		byID[st.Questions[i].ID] = &st.Questions[i]
	}
	reordered, err := permute(byID, orderedIDs)
	if err != nil {
		return err
	}
	st.Questions = reordered
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// permute maps orderedIDs back to entities, requiring an exact
// permutation: every id known, no duplicates, none missing.
func permute[T any](byID map[string]*T, orderedIDs []string) ([]T, error) {
	if len(orderedIDs) != len(byID) {
		return nil, domain.ErrBadOrder
	}
	out := make([]T, 0, len(orderedIDs))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		entity, ok := byID[id]
		if !ok || seen[id] {
			return nil, domain.ErrBadOrder
		}
		seen[id] = true
		out = append(out, *entity)
	}
	return out, nil
}

// ── Moving questions across sub-topics ─────────────────────

// MoveQuestion removes a question from its source sub-topic and appends
// it, fields unchanged, to the destination sub-topic. Both ends are
// resolved before anything is touched, so a failed lookup leaves the
// document exactly as it was.
func (s *SheetService) MoveQuestion(ctx context.Context, fromTopicID, fromSubTopicID, toTopicID, toSubTopicID, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}

	src := s.findSubTopic(fromTopicID, fromSubTopicID)
	if src == nil {
		return domain.ErrNotFound
	}
	dst := s.findSubTopic(toTopicID, toSubTopicID)
	if dst == nil {
		return domain.ErrNotFound
	}

	idx := -1
	for i := range src.Questions {
		if src.Questions[i].ID == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}

	moved := src.Questions[idx]
	src.Questions = append(src.Questions[:idx], src.Questions[idx+1:]...)
	dst.Questions = append(dst.Questions, moved)
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// ── Export / Import ────────────────────────────────────────

// SnapshotCodec serializes/deserializes the export format. Wired to
// storage.EncodeSnapshot/DecodeSnapshot in production.
type SnapshotCodec struct {
	Encode func(topics []domain.Topic) ([]byte, error)
	Decode func(data []byte) ([]domain.Topic, error)
}

// ExportSnapshot serializes the current document as a versioned blob.
func (s *SheetService) ExportSnapshot(codec SnapshotCodec) ([]byte, error) {
	s.mu.RLock()
	topics := domain.CloneTopics(s.topics)
	s.mu.RUnlock()
	return codec.Encode(topics)
}

// ImportSnapshot replaces the whole document with a validated snapshot.
// Any parse/shape failure rejects the blob without touching current state.
func (s *SheetService) ImportSnapshot(ctx context.Context, codec SnapshotCodec, data []byte) error {
	topics, err := codec.Decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}
	s.topics = topics
	s.selectedTopicID = ""
	if len(s.topics) > 0 {
		s.selectedTopicID = s.topics[0].ID
	}
	s.persistLocked(ctx)
	s.emitChanged(ctx)
	return nil
}

// ── Internals ──────────────────────────────────────────────

// guardLocked rejects mutations while the document is not authoritative:
// during a load/seed, and before the first successful load.
func (s *SheetService) guardLocked() error {
	if s.loading || !s.ready {
		return domain.ErrLoading
	}
	return nil
}

// persistLocked writes the full document through the gateway. A failed
// save is reported but never rolls back the in-memory mutation: memory
// stays the source of truth for the session.
func (s *SheetService) persistLocked(ctx context.Context) {
	sheet := &domain.PersistedSheet{
		Topics:           s.topics,
		SelectedTopicID:  s.selectedTopicID,
		SearchQuery:      s.searchQuery,
		DifficultyFilter: s.difficultyFilter,
	}
	if err := s.store.Save(sheet); err != nil {
		log.Printf("sheet service: save failed: %v", err)
		s.emitter.Emit(ctx, "sheet:save-failed", err.Error())
	}
}

func (s *SheetService) emitChanged(ctx context.Context) {
	s.emitter.Emit(ctx, "sheet:changed", nil)
}

func (s *SheetService) findTopic(topicID string) *domain.Topic {
	for i := range s.topics {
		if s.topics[i].ID == topicID {
			return &s.topics[i]
		}
	}
	return nil
}

func (s *SheetService) findSubTopic(topicID, subTopicID string) *domain.SubTopic {
	t := s.findTopic(topicID)
	if t == nil {
		return nil
	}
	for i := range t.SubTopics {
		if t.SubTopics[i].ID == subTopicID {
			return &t.SubTopics[i]
		}
	}
	return nil
}

func (s *SheetService) findQuestion(topicID, subTopicID, questionID string) *domain.Question {
	st := s.findSubTopic(topicID, subTopicID)
	if st == nil {
		return nil
	}
	for i := range st.Questions {
		if st.Questions[i].ID == questionID {
			return &st.Questions[i]
		}
	}
	return nil
}
