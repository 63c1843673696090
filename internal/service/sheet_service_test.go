package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"dsasheet/internal/domain"
	"dsasheet/internal/service"
)

// ─────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────

// memStore is an in-memory SheetStore. Save deep-copies through JSON so
// later in-memory mutations can't retroactively change what was "saved".
type memStore struct {
	saved   *domain.PersistedSheet
	saveErr error
	loadErr error
	saves   int
	clears  int
}

func (m *memStore) Load() (*domain.PersistedSheet, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return nil, domain.ErrNoDocument
	}
	return m.saved, nil
}

func (m *memStore) Save(sheet *domain.PersistedSheet) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(sheet)
	if err != nil {
		return err
	}
	var copied domain.PersistedSheet
	if err := json.Unmarshal(data, &copied); err != nil {
		return err
	}
	m.saved = &copied
	return nil
}

func (m *memStore) Clear() error {
	m.clears++
	m.saved = nil
	return nil
}

// seedStub serves a canned tree, or fails.
type seedStub struct {
	topics []domain.Topic
	err    error
	calls  int
}

func (s *seedStub) FetchSheet(_ context.Context) ([]domain.Topic, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return domain.CloneTopics(s.topics), nil
}

func fixtureTopics() []domain.Topic {
	return []domain.Topic{
		{
			ID:    "arrays",
			Title: "Arrays",
			SubTopics: []domain.SubTopic{
				{
					ID:    "arrays-basics",
					Title: "Basics",
					Questions: []domain.Question{
						{ID: "q1", Title: "Two Sum", Difficulty: domain.DifficultyEasy, Platform: domain.PlatformLeetCode, ProblemURL: "https://leetcode.com/problems/two-sum"},
						{ID: "q2", Title: "Three Sum", Difficulty: domain.DifficultyMedium, Platform: domain.PlatformLeetCode},
					},
				},
				{
					ID:    "arrays-advanced",
					Title: "Advanced",
					Questions: []domain.Question{
						{ID: "q3", Title: "Trapping Rain Water", Difficulty: domain.DifficultyHard, Platform: domain.PlatformLeetCode},
					},
				},
			},
		},
		{
			ID:    "graphs",
			Title: "Graphs",
			SubTopics: []domain.SubTopic{
				{
					ID:    "graphs-traversal",
					Title: "Traversal",
					Questions: []domain.Question{
						{ID: "q4", Title: "BFS of Graph", Difficulty: domain.DifficultyEasy, Platform: domain.PlatformGFG},
					},
				},
			},
		},
	}
}

func newTestService(t *testing.T) (*service.SheetService, *memStore, *service.MockEmitter) {
	t.Helper()
	store := &memStore{}
	emitter := &service.MockEmitter{}
	svc := service.NewSheetService(store, &seedStub{topics: fixtureTopics()}, emitter)
	if err := svc.InitSheet(context.Background()); err != nil {
		t.Fatalf("InitSheet failed: %v", err)
	}
	return svc, store, emitter
}

func hasEvent(emitter *service.MockEmitter, name string) bool {
	for _, e := range emitter.Events {
		if e.Event == name {
			return true
		}
	}
	return false
}

// jsonCodec is a minimal snapshot codec for service-level tests.
var jsonCodec = service.SnapshotCodec{
	Encode: func(topics []domain.Topic) ([]byte, error) {
		return json.Marshal(struct {
			Topics []domain.Topic `json:"topics"`
		}{topics})
	},
	Decode: func(data []byte) ([]domain.Topic, error) {
		var snap struct {
			Topics []domain.Topic `json:"topics"`
		}
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBadSnapshot, err)
		}
		if snap.Topics == nil {
			return nil, fmt.Errorf("%w: missing topics", domain.ErrBadSnapshot)
		}
		return snap.Topics, nil
	},
}

// ─────────────────────────────────────────────────────────────
// Bootstrap
// ─────────────────────────────────────────────────────────────

func TestInitSheet_SeedsWhenStoreEmpty(t *testing.T) {
	store := &memStore{}
	emitter := &service.MockEmitter{}
	seed := &seedStub{topics: fixtureTopics()}
	svc := service.NewSheetService(store, seed, emitter)

	if err := svc.InitSheet(context.Background()); err != nil {
		t.Fatalf("InitSheet failed: %v", err)
	}
	if seed.calls != 1 {
		t.Errorf("expected 1 seed fetch, got %d", seed.calls)
	}
	if got := len(svc.Topics()); got != 2 {
		t.Errorf("expected 2 topics, got %d", got)
	}
	if vs := svc.GetViewState(); vs.SelectedTopicID != "arrays" {
		t.Errorf("expected first topic selected, got %q", vs.SelectedTopicID)
	}
	if store.saved == nil {
		t.Error("expected seeded document to be persisted")
	}
	if !hasEvent(emitter, "sheet:loaded") {
		t.Error("expected sheet:loaded event")
	}
}

func TestInitSheet_PrefersStoredDocument(t *testing.T) {
	store := &memStore{saved: &domain.PersistedSheet{
		Topics:           fixtureTopics(),
		SelectedTopicID:  "graphs",
		SearchQuery:      "sum",
		DifficultyFilter: domain.FilterEasy,
	}}
	seed := &seedStub{err: errors.New("network down")}
	svc := service.NewSheetService(store, seed, &service.MockEmitter{})

	if err := svc.InitSheet(context.Background()); err != nil {
		t.Fatalf("InitSheet failed: %v", err)
	}
	if seed.calls != 0 {
		t.Errorf("seed should not be fetched when a document exists, got %d calls", seed.calls)
	}
	vs := svc.GetViewState()
	if vs.SelectedTopicID != "graphs" || vs.SearchQuery != "sum" || vs.DifficultyFilter != domain.FilterEasy {
		t.Errorf("view state not restored: %+v", vs)
	}
}

func TestInitSheet_DropsStaleSelection(t *testing.T) {
	store := &memStore{saved: &domain.PersistedSheet{
		Topics:          fixtureTopics(),
		SelectedTopicID: "deleted-long-ago",
	}}
	svc := service.NewSheetService(store, &seedStub{}, &service.MockEmitter{})

	if err := svc.InitSheet(context.Background()); err != nil {
		t.Fatalf("InitSheet failed: %v", err)
	}
	if vs := svc.GetViewState(); vs.SelectedTopicID != "arrays" {
		t.Errorf("expected selection to fall back to first topic, got %q", vs.SelectedTopicID)
	}
}

func TestInitSheet_SeedFailure(t *testing.T) {
	emitter := &service.MockEmitter{}
	svc := service.NewSheetService(&memStore{}, &seedStub{err: errors.New("offline")}, emitter)

	if err := svc.InitSheet(context.Background()); err == nil {
		t.Fatal("expected InitSheet to fail")
	}
	if svc.LoadError() == nil {
		t.Error("expected LoadError to be set")
	}
	if !hasEvent(emitter, "sheet:load-failed") {
		t.Error("expected sheet:load-failed event")
	}
	// Still no authoritative document: mutations stay rejected.
	if _, err := svc.AddTopic(context.Background(), "Strings"); !errors.Is(err, domain.ErrLoading) {
		t.Errorf("expected ErrLoading, got %v", err)
	}
}

func TestMutationsRejectedBeforeInit(t *testing.T) {
	svc := service.NewSheetService(&memStore{}, &seedStub{topics: fixtureTopics()}, &service.MockEmitter{})

	if _, err := svc.AddTopic(context.Background(), "Strings"); !errors.Is(err, domain.ErrLoading) {
		t.Errorf("AddTopic: expected ErrLoading, got %v", err)
	}
	if err := svc.SetSearchQuery(context.Background(), "x"); !errors.Is(err, domain.ErrLoading) {
		t.Errorf("SetSearchQuery: expected ErrLoading, got %v", err)
	}
}

func TestResetToDefault(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ToggleSolved(ctx, "arrays", "arrays-basics", "q1"); err != nil {
		t.Fatalf("ToggleSolved failed: %v", err)
	}
	if err := svc.ResetToDefault(ctx); err != nil {
		t.Fatalf("ResetToDefault failed: %v", err)
	}
	if store.clears != 1 {
		t.Errorf("expected 1 store clear, got %d", store.clears)
	}
	q, err := svc.GetQuestion("arrays", "arrays-basics", "q1")
	if err != nil {
		t.Fatalf("GetQuestion failed: %v", err)
	}
	if q.IsSolved {
		t.Error("expected progress to be discarded after reset")
	}
}

// ─────────────────────────────────────────────────────────────
// Topic / sub-topic CRUD
// ─────────────────────────────────────────────────────────────

func TestTopicCRUD(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	topic, err := svc.AddTopic(ctx, "Strings")
	if err != nil {
		t.Fatalf("AddTopic failed: %v", err)
	}
	if topic.ID == "" || topic.Title != "Strings" {
		t.Errorf("unexpected new topic: %+v", topic)
	}
	if got := len(svc.Topics()); got != 3 {
		t.Fatalf("expected 3 topics, got %d", got)
	}

	if err := svc.EditTopic(ctx, topic.ID, "Strings & Tries"); err != nil {
		t.Fatalf("EditTopic failed: %v", err)
	}
	renamed, err := svc.GetTopic(topic.ID)
	if err != nil {
		t.Fatalf("GetTopic failed: %v", err)
	}
	if renamed.Title != "Strings & Tries" {
		t.Errorf("expected renamed title, got %q", renamed.Title)
	}

	if err := svc.DeleteTopic(ctx, topic.ID); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}
	if _, err := svc.GetTopic(topic.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteTopic_CascadesAndReselects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetSelectedTopic(ctx, "arrays"); err != nil {
		t.Fatalf("SetSelectedTopic failed: %v", err)
	}
	if err := svc.DeleteTopic(ctx, "arrays"); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}

	// Every question under the topic is gone from search.
	for _, hit := range svc.FilteredQuestions("", domain.FilterAll) {
		if hit.TopicID == "arrays" {
			t.Fatalf("found orphan question %q after topic delete", hit.ID)
		}
	}
	if vs := svc.GetViewState(); vs.SelectedTopicID != "graphs" {
		t.Errorf("expected selection to move to remaining topic, got %q", vs.SelectedTopicID)
	}
}

func TestSubTopicCRUD(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	sub, err := svc.AddSubTopic(ctx, "graphs", "Shortest Paths")
	if err != nil {
		t.Fatalf("AddSubTopic failed: %v", err)
	}
	if err := svc.EditSubTopic(ctx, "graphs", sub.ID, "Shortest Paths & MST"); err != nil {
		t.Fatalf("EditSubTopic failed: %v", err)
	}
	got, err := svc.GetSubTopic("graphs", sub.ID)
	if err != nil {
		t.Fatalf("GetSubTopic failed: %v", err)
	}
	if got.Title != "Shortest Paths & MST" {
		t.Errorf("expected renamed sub-topic, got %q", got.Title)
	}

	if err := svc.DeleteSubTopic(ctx, "graphs", sub.ID); err != nil {
		t.Fatalf("DeleteSubTopic failed: %v", err)
	}
	if _, err := svc.GetSubTopic("graphs", sub.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Question CRUD
// ─────────────────────────────────────────────────────────────

func TestAddQuestion_Defaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	q, err := svc.AddQuestion(context.Background(), "arrays", "arrays-basics", domain.QuestionInput{Title: "Max Subarray"})
	if err != nil {
		t.Fatalf("AddQuestion failed: %v", err)
	}
	if q.Difficulty != domain.DifficultyMedium {
		t.Errorf("expected default difficulty Medium, got %q", q.Difficulty)
	}
	if q.Platform != domain.PlatformLeetCode {
		t.Errorf("expected default platform leetcode, got %q", q.Platform)
	}
	if q.IsSolved {
		t.Error("new question must start unsolved")
	}
}

func TestAddQuestion_RequiresTitle(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.AddQuestion(context.Background(), "arrays", "arrays-basics", domain.QuestionInput{Title: "  "}); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestEditQuestion_PartialUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	hard := domain.DifficultyHard
	if err := svc.EditQuestion(ctx, "arrays", "arrays-basics", "q1", domain.QuestionUpdate{Difficulty: &hard}); err != nil {
		t.Fatalf("EditQuestion failed: %v", err)
	}
	q, err := svc.GetQuestion("arrays", "arrays-basics", "q1")
	if err != nil {
		t.Fatalf("GetQuestion failed: %v", err)
	}
	if q.Difficulty != domain.DifficultyHard {
		t.Errorf("expected difficulty updated, got %q", q.Difficulty)
	}
	if q.Title != "Two Sum" {
		t.Errorf("untouched field changed: title %q", q.Title)
	}
	if q.ProblemURL == "" {
		t.Error("untouched field changed: problemUrl cleared")
	}
}

func TestDeleteQuestion(t *testing.T) {
	svc, _, _ := newTestService(t)

	if err := svc.DeleteQuestion(context.Background(), "arrays", "arrays-basics", "q2"); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}
	if _, err := svc.GetQuestion("arrays", "arrays-basics", "q2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if stats := svc.TopicStats("arrays"); stats.Total != 2 {
		t.Errorf("expected 2 questions left in topic, got %d", stats.Total)
	}
}

func TestNotFoundLeavesDocumentUntouched(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	before := svc.SheetStats()

	cases := []error{
		svc.EditTopic(ctx, "no-such", "x"),
		svc.DeleteTopic(ctx, "no-such"),
		svc.EditSubTopic(ctx, "arrays", "no-such", "x"),
		svc.DeleteSubTopic(ctx, "arrays", "no-such"),
		svc.DeleteQuestion(ctx, "arrays", "arrays-basics", "no-such"),
		svc.SaveTextNote(ctx, "arrays", "arrays-basics", "no-such", "n"),
	}
	for i, err := range cases {
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("case %d: expected ErrNotFound, got %v", i, err)
		}
	}
	if after := svc.SheetStats(); after != before {
		t.Errorf("document changed by failed mutation: %+v -> %+v", before, after)
	}
}

// ─────────────────────────────────────────────────────────────
// Solved flag, notes, stats
// ─────────────────────────────────────────────────────────────

func TestToggleSolved_SelfInverse(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	solved, err := svc.ToggleSolved(ctx, "graphs", "graphs-traversal", "q4")
	if err != nil {
		t.Fatalf("ToggleSolved failed: %v", err)
	}
	if !solved {
		t.Error("expected first toggle to mark solved")
	}
	if stats := svc.TopicStats("graphs"); stats.Solved != 1 || stats.Total != 1 {
		t.Errorf("expected stats 1/1, got %d/%d", stats.Solved, stats.Total)
	}

	solved, err = svc.ToggleSolved(ctx, "graphs", "graphs-traversal", "q4")
	if err != nil {
		t.Fatalf("ToggleSolved failed: %v", err)
	}
	if solved {
		t.Error("expected second toggle to mark unsolved")
	}
	if stats := svc.TopicStats("graphs"); stats.Solved != 0 {
		t.Errorf("expected stats back to 0 solved, got %d", stats.Solved)
	}
}

func TestNotes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveTextNote(ctx, "arrays", "arrays-basics", "q1", "use a hashmap"); err != nil {
		t.Fatalf("SaveTextNote failed: %v", err)
	}
	if err := svc.SaveDrawingNote(ctx, "arrays", "arrays-basics", "q1", `{"strokes":[]}`); err != nil {
		t.Fatalf("SaveDrawingNote failed: %v", err)
	}
	q, err := svc.GetQuestion("arrays", "arrays-basics", "q1")
	if err != nil {
		t.Fatalf("GetQuestion failed: %v", err)
	}
	if q.TextNote != "use a hashmap" || q.DrawingNote != `{"strokes":[]}` {
		t.Errorf("notes not saved: %+v", q)
	}

	// Empty note clears.
	if err := svc.SaveTextNote(ctx, "arrays", "arrays-basics", "q1", ""); err != nil {
		t.Fatalf("SaveTextNote failed: %v", err)
	}
	q, _ = svc.GetQuestion("arrays", "arrays-basics", "q1")
	if q.TextNote != "" {
		t.Errorf("expected cleared note, got %q", q.TextNote)
	}
}

func TestSheetStats(t *testing.T) {
	svc, _, _ := newTestService(t)

	if stats := svc.SheetStats(); stats.Solved != 0 || stats.Total != 4 {
		t.Errorf("expected 0/4, got %d/%d", stats.Solved, stats.Total)
	}
	if _, err := svc.ToggleSolved(context.Background(), "arrays", "arrays-basics", "q1"); err != nil {
		t.Fatalf("ToggleSolved failed: %v", err)
	}
	if stats := svc.SheetStats(); stats.Solved != 1 || stats.Total != 4 {
		t.Errorf("expected 1/4, got %d/%d", stats.Solved, stats.Total)
	}
	if stats := svc.TopicStats("no-such-topic"); stats.Total != 0 || stats.Solved != 0 {
		t.Errorf("unknown topic should yield 0/0, got %d/%d", stats.Solved, stats.Total)
	}
}

// ─────────────────────────────────────────────────────────────
// Search
// ─────────────────────────────────────────────────────────────

func TestFilteredQuestions(t *testing.T) {
	svc, _, _ := newTestService(t)

	// Query and difficulty are AND-combined.
	hits := svc.FilteredQuestions("two", domain.FilterEasy)
	if len(hits) != 1 || hits[0].ID != "q1" {
		t.Fatalf("expected exactly q1, got %+v", hits)
	}
	if hits[0].TopicTitle != "Arrays" || hits[0].SubTopicTitle != "Basics" {
		t.Errorf("hit missing location context: %+v", hits[0])
	}

	// Case-insensitive, matches topic title too.
	if hits := svc.FilteredQuestions("GRAPH", domain.FilterAll); len(hits) != 1 || hits[0].ID != "q4" {
		t.Errorf("expected q4 via topic title, got %+v", hits)
	}

	// Difficulty only.
	if hits := svc.FilteredQuestions("", domain.FilterEasy); len(hits) != 2 {
		t.Errorf("expected 2 easy questions, got %d", len(hits))
	}

	// No match.
	if hits := svc.FilteredQuestions("quaternions", domain.FilterAll); len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}

	// Document order is preserved.
	all := svc.FilteredQuestions("", domain.FilterAll)
	want := []string{"q1", "q2", "q3", "q4"}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("expected document order %v, got %v at index %d", want, all[i].ID, i)
		}
	}
}

// ─────────────────────────────────────────────────────────────
// Reordering
// ─────────────────────────────────────────────────────────────

func TestReorderTopics(t *testing.T) {
	svc, _, _ := newTestService(t)

	if err := svc.ReorderTopics(context.Background(), []string{"graphs", "arrays"}); err != nil {
		t.Fatalf("ReorderTopics failed: %v", err)
	}
	topics := svc.Topics()
	if topics[0].ID != "graphs" || topics[1].ID != "arrays" {
		t.Errorf("unexpected order: %s, %s", topics[0].ID, topics[1].ID)
	}
}

func TestReorder_RejectsBadPermutations(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := [][]string{
		{"graphs"},                       // missing id
		{"graphs", "arrays", "phantom"},  // extra id
		{"graphs", "graphs"},             // duplicate
		{"graphs", "phantom"},            // unknown id
	}
	for i, ids := range cases {
		if err := svc.ReorderTopics(ctx, ids); !errors.Is(err, domain.ErrBadOrder) {
			t.Errorf("case %d: expected ErrBadOrder, got %v", i, err)
		}
	}
	// Order untouched after every rejection.
	if topics := svc.Topics(); topics[0].ID != "arrays" {
		t.Errorf("order changed by rejected reorder: first topic %s", topics[0].ID)
	}
}

func TestReorderSubTopicsAndQuestions(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.ReorderSubTopics(ctx, "arrays", []string{"arrays-advanced", "arrays-basics"}); err != nil {
		t.Fatalf("ReorderSubTopics failed: %v", err)
	}
	topic, _ := svc.GetTopic("arrays")
	if topic.SubTopics[0].ID != "arrays-advanced" {
		t.Errorf("unexpected sub-topic order: %s", topic.SubTopics[0].ID)
	}

	if err := svc.ReorderQuestions(ctx, "arrays", "arrays-basics", []string{"q2", "q1"}); err != nil {
		t.Fatalf("ReorderQuestions failed: %v", err)
	}
	sub, _ := svc.GetSubTopic("arrays", "arrays-basics")
	if sub.Questions[0].ID != "q2" || sub.Questions[1].ID != "q1" {
		t.Errorf("unexpected question order: %s, %s", sub.Questions[0].ID, sub.Questions[1].ID)
	}

	if err := svc.ReorderQuestions(ctx, "arrays", "no-such", []string{"q1"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown sub-topic, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Moving questions
// ─────────────────────────────────────────────────────────────

func TestMoveQuestion(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	before := svc.SheetStats()
	if err := svc.SaveTextNote(ctx, "arrays", "arrays-basics", "q1", "hashmap"); err != nil {
		t.Fatalf("SaveTextNote failed: %v", err)
	}
	if err := svc.MoveQuestion(ctx, "arrays", "arrays-basics", "graphs", "graphs-traversal", "q1"); err != nil {
		t.Fatalf("MoveQuestion failed: %v", err)
	}

	if _, err := svc.GetQuestion("arrays", "arrays-basics", "q1"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("question still present at source")
	}
	dst, _ := svc.GetSubTopic("graphs", "graphs-traversal")
	last := dst.Questions[len(dst.Questions)-1]
	if last.ID != "q1" {
		t.Fatalf("expected q1 appended at destination, got %s", last.ID)
	}
	if last.TextNote != "hashmap" || last.Difficulty != domain.DifficultyEasy {
		t.Errorf("fields lost in move: %+v", last)
	}
	if after := svc.SheetStats(); after != before {
		t.Errorf("total changed by move: %+v -> %+v", before, after)
	}
}

func TestMoveQuestion_BadDestinationLeavesSource(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.MoveQuestion(context.Background(), "arrays", "arrays-basics", "graphs", "no-such", "q1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetQuestion("arrays", "arrays-basics", "q1"); err != nil {
		t.Error("question removed from source despite failed move")
	}
}

// ─────────────────────────────────────────────────────────────
// Export / import
// ─────────────────────────────────────────────────────────────

func TestExportImportRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ToggleSolved(ctx, "arrays", "arrays-basics", "q1"); err != nil {
		t.Fatalf("ToggleSolved failed: %v", err)
	}
	blob, err := svc.ExportSnapshot(jsonCodec)
	if err != nil {
		t.Fatalf("ExportSnapshot failed: %v", err)
	}

	// Wreck the document, then restore from the snapshot.
	if err := svc.DeleteTopic(ctx, "arrays"); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}
	if err := svc.ImportSnapshot(ctx, jsonCodec, blob); err != nil {
		t.Fatalf("ImportSnapshot failed: %v", err)
	}

	q, err := svc.GetQuestion("arrays", "arrays-basics", "q1")
	if err != nil {
		t.Fatalf("GetQuestion after import failed: %v", err)
	}
	if !q.IsSolved {
		t.Error("solved flag lost in round trip")
	}
	if vs := svc.GetViewState(); vs.SelectedTopicID != "arrays" {
		t.Errorf("expected selection reset to first topic, got %q", vs.SelectedTopicID)
	}
}

func TestImportSnapshot_RejectsMalformed(t *testing.T) {
	svc, _, _ := newTestService(t)
	before := svc.SheetStats()

	blobs := [][]byte{
		[]byte(`{"version":1,"topics":"not-an-array"}`),
		[]byte(`not json at all`),
		[]byte(`{"version":1}`),
	}
	for i, blob := range blobs {
		if err := svc.ImportSnapshot(context.Background(), jsonCodec, blob); !errors.Is(err, domain.ErrBadSnapshot) {
			t.Errorf("blob %d: expected ErrBadSnapshot, got %v", i, err)
		}
	}
	if after := svc.SheetStats(); after != before {
		t.Errorf("document changed by rejected import: %+v -> %+v", before, after)
	}
}

// ─────────────────────────────────────────────────────────────
// Persistence behavior
// ─────────────────────────────────────────────────────────────

func TestMutationsPersistThroughStore(t *testing.T) {
	svc, store, _ := newTestService(t)

	if _, err := svc.ToggleSolved(context.Background(), "arrays", "arrays-basics", "q1"); err != nil {
		t.Fatalf("ToggleSolved failed: %v", err)
	}

	// A second service over the same store sees the mutation.
	svc2 := service.NewSheetService(store, &seedStub{err: errors.New("must not seed")}, &service.MockEmitter{})
	if err := svc2.InitSheet(context.Background()); err != nil {
		t.Fatalf("InitSheet failed: %v", err)
	}
	q, err := svc2.GetQuestion("arrays", "arrays-basics", "q1")
	if err != nil {
		t.Fatalf("GetQuestion failed: %v", err)
	}
	if !q.IsSolved {
		t.Error("mutation not visible after reload")
	}
}

func TestSaveFailureIsNonFatal(t *testing.T) {
	svc, store, emitter := newTestService(t)
	store.saveErr = errors.New("disk full")

	solved, err := svc.ToggleSolved(context.Background(), "arrays", "arrays-basics", "q1")
	if err != nil {
		t.Fatalf("mutation must not fail on save error, got %v", err)
	}
	if !solved {
		t.Error("expected in-memory mutation to apply")
	}
	if !hasEvent(emitter, "sheet:save-failed") {
		t.Error("expected sheet:save-failed event")
	}
	// In-memory state is still authoritative.
	if q, _ := svc.GetQuestion("arrays", "arrays-basics", "q1"); !q.IsSolved {
		t.Error("in-memory state rolled back on save failure")
	}
}

// ─────────────────────────────────────────────────────────────
// View state
// ─────────────────────────────────────────────────────────────

func TestViewStateMutations(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetSelectedTopic(ctx, "graphs"); err != nil {
		t.Fatalf("SetSelectedTopic failed: %v", err)
	}
	if err := svc.SetSelectedTopic(ctx, "no-such"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown topic, got %v", err)
	}
	if err := svc.SetSearchQuery(ctx, "bfs"); err != nil {
		t.Fatalf("SetSearchQuery failed: %v", err)
	}
	if err := svc.SetDifficultyFilter(ctx, domain.FilterHard); err != nil {
		t.Fatalf("SetDifficultyFilter failed: %v", err)
	}
	if err := svc.SetDifficultyFilter(ctx, "impossible"); err == nil {
		t.Error("expected error for invalid filter")
	}

	vs := svc.GetViewState()
	if vs.SelectedTopicID != "graphs" || vs.SearchQuery != "bfs" || vs.DifficultyFilter != domain.FilterHard {
		t.Errorf("unexpected view state: %+v", vs)
	}
}

func TestReadAccessorsReturnCopies(t *testing.T) {
	svc, _, _ := newTestService(t)

	topics := svc.Topics()
	topics[0].Title = "clobbered"
	topics[0].SubTopics[0].Questions[0].Title = "clobbered"

	fresh, _ := svc.GetTopic("arrays")
	if fresh.Title == "clobbered" || fresh.SubTopics[0].Questions[0].Title == "clobbered" {
		t.Error("read accessor leaked internal state")
	}
}

func TestChangeEventsEmitted(t *testing.T) {
	svc, _, emitter := newTestService(t)

	n := len(emitter.Events)
	if _, err := svc.AddTopic(context.Background(), "Strings"); err != nil {
		t.Fatalf("AddTopic failed: %v", err)
	}
	if len(emitter.Events) <= n {
		t.Fatal("expected an event after mutation")
	}
	if last := emitter.Events[len(emitter.Events)-1]; last.Event != "sheet:changed" {
		t.Errorf("expected sheet:changed, got %q", last.Event)
	}
}
