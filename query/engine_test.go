package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/store"
	"github.com/poiesic/answerit/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedStore indexes the texts into an in-memory store with deterministic
// vectors so searches behave consistently across runs.
func seedStore(t *testing.T, texts map[string]string) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.EnsureCollection(context.Background(), 384))

	var points []store.Point
	for name, text := range texts {
		points = append(points, store.Point{
			Id:      core.IDFromContent(text),
			Vector:  mock.DeterministicVector(text, 384),
			Text:    text,
			Payload: map[string]string{"name": name},
		})
	}
	_, err := s.Upsert(context.Background(), points)
	require.NoError(t, err)
	return s
}

func newTestEngine(t *testing.T, vectorStore store.VectorStore, provider ai.AIProvider, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(vectorStore, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(e.Release)
	return e
}

// recordingMonitor captures every callback for assertions.
type recordingMonitor struct {
	question string
	queries  []string
	searches int
	merged   []*core.Passage
	answer   *core.Answer
}

func (m *recordingMonitor) Start(question string)               { m.question = question }
func (m *recordingMonitor) AfterExpansion(queries []string)     { m.queries = queries }
func (m *recordingMonitor) AfterSearch(string, []*core.Passage) { m.searches++ }
func (m *recordingMonitor) AfterMerge(passages []*core.Passage) { m.merged = passages }
func (m *recordingMonitor) Finish(answer *core.Answer)          { m.answer = answer }

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("passages surfaced by several variants appear once", func(t *testing.T) {
		s := seedStore(t, map[string]string{
			"doc1": "Our sales team has 12 members.",
			"doc2": "Offices are closed on public holidays.",
		})
		// Every variant searches the same corpus, so every passage comes
		// back once per variant before deduplication.
		e := newTestEngine(t, s, mock.NewMockProvider())

		answer, err := e.Ask(ctx, "how many people are on the sales team?")
		require.NoError(t, err)

		assert.Len(t, answer.Paraphrases, 3)
		require.Len(t, answer.Passages, 2)
		seen := make(map[core.ID]int)
		for _, p := range answer.Passages {
			seen[p.Identity()]++
		}
		for id, count := range seen {
			assert.Equal(t, 1, count, "passage %d surfaced more than once", id)
		}
	})

	t.Run("answers from the merged passages", func(t *testing.T) {
		s := seedStore(t, map[string]string{
			"doc1": "Our sales team has 12 members.",
		})
		e := newTestEngine(t, s, mock.NewMockProvider())

		answer, err := e.Ask(ctx, "how many people are on the sales team?")
		require.NoError(t, err)
		assert.Contains(t, answer.Text, "12")
		require.NotEmpty(t, answer.Passages)
		assert.Equal(t, "doc1", answer.Passages[0].Source())
	})

	t.Run("zero paraphrases searches the original alone", func(t *testing.T) {
		s := seedStore(t, map[string]string{"doc1": "body text"})

		expander := mock.NewMockExpander()
		expander.ExpandQueryFunc = func(ctx context.Context, question string) ([]string, error) {
			return nil, nil
		}
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), expander, mock.NewMockAnswerer())

		monitor := &recordingMonitor{}
		e := newTestEngine(t, s, provider)

		answer, err := e.AskWithMonitor(ctx, "anything?", monitor)
		require.NoError(t, err)
		assert.Empty(t, answer.Paraphrases)
		assert.Equal(t, "anything?", monitor.question)
		assert.Equal(t, []string{"anything?"}, monitor.queries)
		assert.Equal(t, 1, monitor.searches)
		assert.Len(t, monitor.merged, 1)
		assert.Same(t, answer, monitor.answer)
		assert.Len(t, answer.Passages, 1)
	})

	t.Run("expansion failure degrades to the original question", func(t *testing.T) {
		s := seedStore(t, map[string]string{"doc1": "body text"})

		expander := mock.NewMockExpander()
		expander.ExpandQueryFunc = func(ctx context.Context, question string) ([]string, error) {
			return nil, errors.New("connection refused")
		}
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), expander, mock.NewMockAnswerer())

		e := newTestEngine(t, s, provider)
		answer, err := e.Ask(ctx, "anything?")
		require.NoError(t, err)
		assert.Empty(t, answer.Paraphrases)
		assert.Len(t, answer.Passages, 1)
	})

	t.Run("search failure surfaces", func(t *testing.T) {
		e := newTestEngine(t, &failingStore{}, mock.NewMockProvider())
		_, err := e.Ask(ctx, "anything?")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "searching query")
	})

	t.Run("merge order is stable across runs", func(t *testing.T) {
		s := seedStore(t, map[string]string{
			"doc1": "alpha passage",
			"doc2": "beta passage",
			"doc3": "gamma passage",
		})
		e := newTestEngine(t, s, mock.NewMockProvider())

		first, err := e.Ask(ctx, "which passage?")
		require.NoError(t, err)
		second, err := e.Ask(ctx, "which passage?")
		require.NoError(t, err)

		require.Equal(t, len(first.Passages), len(second.Passages))
		for i := range first.Passages {
			assert.Equal(t, first.Passages[i].Identity(), second.Passages[i].Identity())
		}
	})

	t.Run("wide fan-out counts every variant", func(t *testing.T) {
		s := seedStore(t, map[string]string{"doc1": "body text"})

		variants := make([]string, 64)
		for i := range variants {
			variants[i] = fmt.Sprintf("variant %d of the question?", i)
		}

		embedder := mock.NewMockEmbedder()
		expander := mock.NewMockExpander()
		expander.ExpandQueryFunc = func(ctx context.Context, question string) ([]string, error) {
			return variants, nil
		}
		provider := mock.NewMockProviderWithServices(embedder, expander, mock.NewMockAnswerer())

		// Many variants on a wide pool so the searches genuinely overlap.
		e := newTestEngine(t, s, provider, WithPoolSize(16))

		answer, err := e.Ask(ctx, "the question?")
		require.NoError(t, err)
		assert.Len(t, answer.Paraphrases, 64)
		assert.Equal(t, 65, embedder.CallCount())
		assert.Len(t, answer.Passages, 1)
	})

	t.Run("empty question", func(t *testing.T) {
		e := newTestEngine(t, memory.NewStore(), mock.NewMockProvider())
		_, err := e.Ask(ctx, "   ")
		assert.Equal(t, ErrEmptyQuestion, err)
	})
}

func TestBuildContext(t *testing.T) {
	block := buildContext([]*core.Passage{
		{Text: "first passage", Metadata: map[string]string{"name": "doc1"}},
		{Text: "second passage"},
	})

	parts := strings.Split(block, "\n\n")
	require.Len(t, parts, 2)
	assert.Equal(t, "SOURCE: doc1\nfirst passage", parts[0])
	assert.Equal(t, "SOURCE: unknown\nsecond passage", parts[1])
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(nil, mock.NewMockProvider())
	assert.Equal(t, ErrStoreRequired, err)

	_, err = NewEngine(memory.NewStore(), nil)
	assert.Equal(t, ErrAIProviderRequired, err)

	_, err = NewEngine(memory.NewStore(), mock.NewMockProvider(), WithTopK(0))
	assert.Error(t, err)
}

// failingStore errors on every search.
type failingStore struct{}

func (*failingStore) EnsureCollection(context.Context, int) error { return nil }

func (*failingStore) Upsert(context.Context, []store.Point) (*store.UpsertResult, error) {
	return &store.UpsertResult{}, nil
}

func (*failingStore) Search(context.Context, []float32, int) ([]*core.Passage, error) {
	return nil, errors.New("connection refused")
}

func (*failingStore) Close() error { return nil }
