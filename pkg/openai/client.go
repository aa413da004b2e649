package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

type Options struct {
	BaseURL  string
	Referrer string
	Title    string
}

type client struct {
	api *goopenai.Client
}

type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

func NewClient(token string, opts Options) (*client, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	cfg := goopenai.DefaultConfig(token)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	// OpenRouter attributes traffic through these optional headers.
	if opts.Referrer != "" || opts.Title != "" {
		h := http.Header{}
		if opts.Referrer != "" {
			h.Set("HTTP-Referer", opts.Referrer)
		}
		if opts.Title != "" {
			h.Set("X-Title", opts.Title)
		}
		cfg.HTTPClient = &http.Client{Transport: headerTransport{rt: http.DefaultTransport, headers: h}}
	}

	return &client{api: goopenai.NewClientWithConfig(cfg)}, nil
}

func (c *client) CreateCompletion(ctx context.Context, req domain.ProviderRequest) (domain.Completion, error) {
	resp, err := c.api.CreateChatCompletion(ctx, toChatCompletionRequest(req, false))
	if err != nil {
		return domain.Completion{}, fmt.Errorf("creating chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.Completion{}, fmt.Errorf("no choices in response")
	}

	return domain.Completion{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: domain.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (c *client) CreateCompletionStream(ctx context.Context, req domain.ProviderRequest) (domain.ChunkStream, error) {
	s, err := c.api.CreateChatCompletionStream(ctx, toChatCompletionRequest(req, true))
	if err != nil {
		return nil, fmt.Errorf("creating chat completion stream: %w", err)
	}
	return &stream{s: s}, nil
}

// stream yields text deltas; Recv returns io.EOF once the reply is complete.
type stream struct {
	s *goopenai.ChatCompletionStream
}

func (s *stream) Recv() (string, error) {
	for {
		resp, err := s.s.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("receiving stream chunk: %w", err)
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *stream) Close() error {
	return s.s.Close()
}

func toChatCompletionRequest(req domain.ProviderRequest, streaming bool) goopenai.ChatCompletionRequest {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	// go-openai omits a zero temperature from the payload, which makes the
	// provider fall back to its own default.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	return goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      streaming,
	}
}
