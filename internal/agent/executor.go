package agent

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/parleyhq/parley/internal/transcript"
)

// Executor runs one agent turn: history plus a current prompt in, generated
// text out.
type Executor interface {
	Execute(ctx context.Context, history []transcript.Entry, prompt transcript.Entry) (string, error)
}

// chatExecutor is the production Executor backed by a chat-completion API.
type chatExecutor struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func (e *chatExecutor) Execute(ctx context.Context, history []transcript.Entry, prompt transcript.Entry) (string, error) {
	messages := toChatMessages(append(append([]transcript.Entry{}, history...), prompt))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("agent: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("agent: chat completion returned no choices")
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("agent: chat completion returned empty content")
	}
	return text, nil
}

// toChatMessages converts transcript entries to provider wire messages.
// Summary entries travel as user turns, matching how they were recorded.
func toChatMessages(entries []transcript.Entry) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(entries))
	for _, e := range entries {
		role := openai.ChatMessageRoleUser
		switch e.Kind {
		case transcript.KindSystem:
			role = openai.ChatMessageRoleSystem
		case transcript.KindAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: e.Text})
	}
	return messages
}

// summarySystemPrompt instructs the lightweight condensing agent.
const summarySystemPrompt = `Summarize this conversation segment, focusing on:
- Key technical points and decisions
- Important context and requirements
- Action items and next steps
- Omit small talk, greetings, and casual conversation
Keep the summary concise but informative.`

// Summarizer condenses a segment of conversation into a short text.
type Summarizer interface {
	Summarize(ctx context.Context, entries []transcript.Entry) (string, error)
}

// chatSummarizer runs summarization through a cheap secondary model.
type chatSummarizer struct {
	client *openai.Client
	model  string
}

// NewSummarizer builds a Summarizer over a provider client and model name.
func NewSummarizer(client *openai.Client, model string) Summarizer {
	return &chatSummarizer{client: client, model: model}
}

func (s *chatSummarizer) Summarize(ctx context.Context, entries []transcript.Entry) (string, error) {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s\n", e.Kind, e.Text)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Please summarize the key points from this conversation segment:\n\n" + b.String()},
		},
	})
	if err != nil {
		return "", fmt.Errorf("agent: summarize: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("agent: summarize returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
