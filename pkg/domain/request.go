package domain

// RequestParameters are supplied fresh on every call and never persisted.
type RequestParameters struct {
	Temperature float32
	MaxTokens   int
	Model       string
}

type ProviderRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

type Completion struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// Chunk is one element of a streamed reply. The final chunk of a failed
// stream has Err set and Text holding the user-facing error text.
type Chunk struct {
	Text string
	Err  error
}

// ChunkStream delivers the text deltas of one streamed completion. Recv
// returns io.EOF after the last delta.
type ChunkStream interface {
	Recv() (string, error)
	Close() error
}
