package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
	"github.com/dskvich/chatgpt-web-chat/pkg/logger"
)

type Provider interface {
	CreateCompletion(ctx context.Context, req domain.ProviderRequest) (domain.Completion, error)
	CreateCompletionStream(ctx context.Context, req domain.ProviderRequest) (domain.ChunkStream, error)
}

type ChatProvider interface {
	GetOrCreate(sessionID string) *domain.Chat
}

type completionService struct {
	provider Provider
	chats    ChatProvider
	sleep    sleepFunc
}

func NewCompletionService(provider Provider, chats ChatProvider) *completionService {
	return &completionService{
		provider: provider,
		chats:    chats,
		sleep:    sleepContext,
	}
}

func validateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return &domain.ValidationError{Field: "message", Message: "Message is required"}
	}
	return nil
}

// Send appends message to the session log, calls the provider under the
// session's retry policy and appends the reply. When every attempt fails the
// returned text describes the failure, the error stays nil and the user message
// is left unanswered in the log.
func (s *completionService) Send(ctx context.Context, sessionID, message string, params domain.RequestParameters) (string, error) {
	if err := validateMessage(message); err != nil {
		return "", err
	}

	chat := s.chats.GetOrCreate(sessionID)
	chat.Lock()
	defer chat.Unlock()

	if params.Model != "" {
		chat.Model = params.Model
	}
	chat.Log.Append(domain.RoleUser, message)

	req := buildRequest(chat, params)

	slog.InfoContext(ctx, "Calling provider for chat completion",
		"model", req.Model,
		"messagesCount", len(req.Messages),
		"temperature", req.Temperature,
		"maxTokens", req.MaxTokens,
	)

	r := retrier{policy: chat.Retry, sleep: s.sleep}
	completion, attempts, err := retry(ctx, r, func(ctx context.Context) (domain.Completion, error) {
		c, err := s.provider.CreateCompletion(ctx, req)
		if err != nil {
			return domain.Completion{}, &domain.ProviderError{Model: req.Model, Err: err}
		}
		return c, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "Chat completion retries exhausted",
			"attempts", attempts,
			logger.Err(err),
		)
		return fmt.Sprintf("Error getting response after %d attempts: %v", attempts, providerCause(err)), nil
	}

	chat.Usage.Record(completion.Usage)
	chat.Usage.RecordMessagePair()
	chat.Log.Append(domain.RoleAssistant, completion.Content)

	slog.DebugContext(ctx, "Chat completion received",
		"attempts", attempts,
		"totalTokens", completion.Usage.TotalTokens,
		"contentLength", len(completion.Content),
	)

	return completion.Content, nil
}

// Stream returns a lazy single-pass sequence of reply chunks. The user message
// is appended on the first pull and the session stays locked until the
// sequence ends. The full reply is committed only when the provider stream
// completes; a failure yields one error chunk and a consumer that stops early
// leaves no assistant message behind.
func (s *completionService) Stream(ctx context.Context, sessionID, message string, params domain.RequestParameters) (iter.Seq[domain.Chunk], error) {
	if err := validateMessage(message); err != nil {
		return nil, err
	}

	chat := s.chats.GetOrCreate(sessionID)

	var consumed atomic.Bool

	return func(yield func(domain.Chunk) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(errorChunk(domain.ErrStreamConsumed))
			return
		}

		chat.Lock()
		defer chat.Unlock()

		if params.Model != "" {
			chat.Model = params.Model
		}
		chat.Log.Append(domain.RoleUser, message)

		req := buildRequest(chat, params)

		slog.InfoContext(ctx, "Opening provider stream",
			"model", req.Model,
			"messagesCount", len(req.Messages),
		)

		stream, err := s.provider.CreateCompletionStream(ctx, req)
		if err != nil {
			s.failStream(ctx, yield, &domain.ProviderError{Model: req.Model, Err: err})
			return
		}
		defer stream.Close()

		var (
			reply  strings.Builder
			chunks int
		)
		for {
			text, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				s.failStream(ctx, yield, &domain.ProviderError{Model: req.Model, Err: err})
				return
			}

			chunks++
			reply.WriteString(text)
			if !yield(domain.Chunk{Text: text}) {
				slog.InfoContext(ctx, "Stream consumer stopped, discarding partial reply", "chunks", chunks)
				return
			}
		}

		chat.Log.Append(domain.RoleAssistant, reply.String())
		chat.Usage.RecordRequest()

		slog.DebugContext(ctx, "Stream completed", "chunks", chunks, "contentLength", reply.Len())
	}, nil
}

func (s *completionService) failStream(ctx context.Context, yield func(domain.Chunk) bool, err error) {
	slog.ErrorContext(ctx, "Streaming failed", logger.Err(err))
	yield(errorChunk(err))
}

// providerCause strips the ProviderError envelope so callers see the provider's own message.
func providerCause(err error) error {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

func errorChunk(err error) domain.Chunk {
	return domain.Chunk{Text: fmt.Sprintf("Error in streaming: %v", providerCause(err)), Err: err}
}
