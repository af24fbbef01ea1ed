package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"jobscout-engine/internal/config"
	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

// ClaudeExtractor implements ContactExtractor using Anthropic's Claude.
type ClaudeExtractor struct {
	client anthropic.Client
	cfg    *config.Config
	logger *logrus.Logger
}

// NewClaudeExtractor creates a Claude-backed contact extractor. Returns nil
// when no API key is configured; a nil extractor simply removes the LLM step
// from the enrichment chain.
func NewClaudeExtractor(cfg *config.Config) *ClaudeExtractor {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	return &ClaudeExtractor{
		client: anthropic.NewClient(option.WithAPIKey(cfg.LLM.APIKey)),
		cfg:    cfg,
		logger: utils.GetLogger(),
	}
}

// ProviderName implements ContactExtractor.
func (c *ClaudeExtractor) ProviderName() string { return "claude" }

type extractedContact struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	LinkedInURL string `json:"linkedin_url"`
	Email       string `json:"email"`
}

// ExtractContacts implements ContactExtractor.
func (c *ClaudeExtractor) ExtractContacts(ctx context.Context, content, companyName string) ([]models.DecisionMaker, error) {
	startTime := time.Now()

	// Rough estimation: 3 chars per token.
	maxContentLength := c.cfg.LLM.MaxTokens * 3
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.LLM.Timeout)
	defer cancel()

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.LLM.Model),
		MaxTokens:   int64(c.cfg.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(c.cfg.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: c.buildPrompt(content, companyName)},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("claude api call failed: %w", err)
	}

	contacts, err := parseContactsResponse(response)
	if err != nil {
		return nil, err
	}

	makers := make([]models.DecisionMaker, 0, len(contacts))
	for _, contact := range contacts {
		if contact.Name == "" || contact.Title == "" {
			continue
		}
		makers = append(makers, models.DecisionMaker{
			Name:        contact.Name,
			Title:       contact.Title,
			LinkedInURL: contact.LinkedInURL,
			Email:       contact.Email,
			Provenance:  c.ProviderName(),
			Confidence:  0.6,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"company":         companyName,
		"contacts":        len(makers),
		"processing_time": time.Since(startTime),
	}).Debug("Contact extraction completed")

	return makers, nil
}

func (c *ClaudeExtractor) buildPrompt(content, companyName string) string {
	return fmt.Sprintf(`You are given text from a page about the company %q. Extract the people mentioned with hiring-relevant roles (founders, executives, engineering leadership, recruiters, talent acquisition).

Return ONLY a JSON array, no other text. Each element:
{"name": "string", "title": "string", "linkedin_url": "string or empty", "email": "string or empty"}

Rules:
1. Only include people actually named in the text. Never invent names, emails or URLs.
2. Return [] if nobody relevant is mentioned.

PAGE CONTENT:
%s`, companyName, content)
}

func parseContactsResponse(response *anthropic.Message) ([]extractedContact, error) {
	if len(response.Content) == 0 {
		return nil, fmt.Errorf("empty response from claude")
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	raw := strings.TrimSpace(text.String())
	// Strip a markdown fence if the model wrapped the JSON anyway.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var contacts []extractedContact
	if err := json.Unmarshal([]byte(raw), &contacts); err != nil {
		return nil, fmt.Errorf("failed to parse claude response: %w", err)
	}
	return contacts, nil
}
