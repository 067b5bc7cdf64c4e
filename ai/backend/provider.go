package backend

import (
	"log/slog"

	"github.com/poiesic/htsfinder/ai"
)

// Provider implements ai.AIProvider over a single Client.
type Provider struct {
	client *Client
	logger *slog.Logger
}

// NewProvider creates a provider for the keyword/rank service.
//
// Returns ai.AIProvider interface to enforce abstraction.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	client, err := NewClient(config)
	if err != nil {
		return nil, err
	}
	return &Provider{
		client: client,
		logger: slog.Default().With("component", "backend-provider"),
	}, nil
}

// KeywordExtractor returns the keyword extraction service.
func (p *Provider) KeywordExtractor() ai.KeywordExtractor {
	return p.client
}

// Reranker returns the reranking service.
func (p *Provider) Reranker() ai.Reranker {
	return p.client
}

// Close releases idle connections.
func (p *Provider) Close() error {
	p.logger.Debug("closing backend provider")
	p.client.httpClient.CloseIdleConnections()
	return nil
}
