package openai

import (
	"context"
	"errors"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel is an llms.Model that returns canned content and records calls.
type fakeModel struct {
	mu       sync.Mutex
	content  string
	err      error
	noChoice bool
	messages [][]llms.MessageContent
	options  []llms.CallOptions
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	m.messages = append(m.messages, messages)
	m.options = append(m.options, opts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.noChoice {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.content}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func (m *fakeModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// userText returns the human message of call i.
func (m *fakeModel) userText(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages[i] {
		if msg.Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, part := range msg.Parts {
			if tp, ok := part.(llms.TextContent); ok {
				return tp.Text
			}
		}
	}
	return ""
}
