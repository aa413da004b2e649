package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

var testNow = time.Date(2026, 3, 4, 5, 6, 7, 890123000, time.UTC)

type fakeChats struct {
	mu    sync.Mutex
	chats map[string]*domain.Chat
	retry domain.RetryPolicy
}

func newFakeChats() *fakeChats {
	return &fakeChats{
		chats: map[string]*domain.Chat{},
		retry: domain.RetryPolicy{MaxRetries: 3, Delay: time.Second},
	}
}

func (f *fakeChats) GetOrCreate(sessionID string) *domain.Chat {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.chats[sessionID]
	if !ok {
		c = domain.NewChat(sessionID, "system prompt", "gpt-3.5-turbo", f.retry, testNow)
		f.chats[sessionID] = c
	}
	return c
}

func (f *fakeChats) SetModel(sessionID, model string) {
	c := f.GetOrCreate(sessionID)
	c.Lock()
	defer c.Unlock()
	c.Model = model
}

func (f *fakeChats) SetSystemPrompt(sessionID, prompt string) {
	c := f.GetOrCreate(sessionID)
	c.Lock()
	defer c.Unlock()
	c.SystemPrompt = prompt
}

type fakeProvider struct {
	mu       sync.Mutex
	requests []domain.ProviderRequest

	// completion results are consumed in order; the last one repeats.
	results []completionResult
	echo    bool

	chunks    []string
	streamErr error
	openErr   error
	stream    *fakeStream
}

type completionResult struct {
	completion domain.Completion
	err        error
}

func (f *fakeProvider) CreateCompletion(_ context.Context, req domain.ProviderRequest) (domain.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	if f.echo {
		last := req.Messages[len(req.Messages)-1]
		return domain.Completion{Content: "echo: " + last.Content, Model: req.Model}, nil
	}

	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r.completion, r.err
}

func (f *fakeProvider) CreateCompletionStream(_ context.Context, req domain.ProviderRequest) (domain.ChunkStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.openErr != nil {
		return nil, f.openErr
	}

	f.stream = &fakeStream{chunks: f.chunks, err: f.streamErr}
	return f.stream, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeStream struct {
	chunks []string
	err    error
	closed bool
}

func (s *fakeStream) Recv() (string, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type sleepRecorder struct {
	waits []time.Duration
	err   error
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return s.err
}

type fakeStore struct {
	saved map[string][]domain.Message
}

func (f *fakeStore) Save(name string, messages []domain.Message) (string, error) {
	if f.saved == nil {
		f.saved = map[string][]domain.Message{}
	}
	f.saved[name+".json"] = messages
	return name + ".json", nil
}

func (f *fakeStore) Load(name string) ([]domain.Message, error) {
	m, ok := f.saved[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}
