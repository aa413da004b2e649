package domain

import "time"

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Stats is a point-in-time copy of a session's usage counters.
type Stats struct {
	TotalMessages int        `json:"total_messages"`
	TotalRequests int        `json:"total_requests"`
	TotalCost     float64    `json:"total_cost"`
	StartTime     time.Time  `json:"start_time"`
	TokenUsage    TokenUsage `json:"token_usage"`
	CurrentTime   time.Time  `json:"current_time"`
}

// UsageAccumulator sums provider-reported usage. TotalCost is never computed
// and stays zero.
type UsageAccumulator struct {
	tokens        TokenUsage
	totalRequests int
	totalMessages int
	totalCost     float64
	startTime     time.Time
}

func NewUsageAccumulator(now time.Time) *UsageAccumulator {
	return &UsageAccumulator{startTime: now}
}

// Record adds one request's token counts and counts the request.
func (u *UsageAccumulator) Record(usage TokenUsage) {
	u.tokens.PromptTokens += usage.PromptTokens
	u.tokens.CompletionTokens += usage.CompletionTokens
	u.tokens.TotalTokens += usage.TotalTokens
	u.totalRequests++
}

// RecordRequest counts a request that reported no usage (streamed calls).
func (u *UsageAccumulator) RecordRequest() {
	u.totalRequests++
}

// RecordMessagePair counts one user and one assistant turn.
func (u *UsageAccumulator) RecordMessagePair() {
	u.totalMessages += 2
}

func (u *UsageAccumulator) Reset(now time.Time) {
	*u = UsageAccumulator{startTime: now}
}

func (u *UsageAccumulator) Tokens() TokenUsage {
	return u.tokens
}

func (u *UsageAccumulator) TotalRequests() int {
	return u.totalRequests
}

func (u *UsageAccumulator) Snapshot(now time.Time) Stats {
	return Stats{
		TotalMessages: u.totalMessages,
		TotalRequests: u.totalRequests,
		TotalCost:     u.totalCost,
		StartTime:     u.startTime,
		TokenUsage:    u.tokens,
		CurrentTime:   now,
	}
}
