package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goleilao/internal/llm"
	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/record"
)

// ErrBackendUnavailable marks the semantic strategy's silent-fallback path:
// the cascade records it and moves on to the deterministic strategies.
var ErrBackendUnavailable = errors.New("generative backend not configured")

const semanticSystemPrompt = "Você é um especialista em extrair dados estruturados de anúncios de leilões de imóveis. Responda somente com um objeto JSON válido, sem narração e sem cercas de código."

// semanticTargetFields is the fixed enumerated field list sent with every
// request; the response is only trusted for these keys.
var semanticTargetFields = []string{
	record.KeyTitle, record.KeyPropertyType, record.KeyAddress, record.KeyArea,
	record.KeyInitialValue, record.KeyAppraisalValue, record.KeyAuctionDate,
	record.KeyAuctionType, record.KeyProcessNumber, record.KeyRegistryNumber,
	record.KeyDescription,
}

// Semantic asks an OpenAI-compatible backend to read a bounded excerpt of the
// listing text and return a field→value object. The response is parsed
// strictly as JSON; it is never evaluated. Parse failures and backend errors
// yield an empty map plus a recorded error — retries belong to the backend
// client, not here.
type Semantic struct {
	Client llm.Client
	Model  string
	// MaxExcerptChars bounds the prompt excerpt. Zero means 4000.
	MaxExcerptChars int
}

func (s *Semantic) Name() string { return "semantic" }

func (s *Semantic) Extract(ctx context.Context, page *markup.Page) (record.RawFieldMap, error) {
	if page == nil || strings.TrimSpace(page.Text) == "" {
		return nil, ErrNoContent
	}
	if s.Client == nil || s.Model == "" {
		return nil, ErrBackendUnavailable
	}

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: semanticSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: s.buildPrompt(page.Text)},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("backend call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("backend returned no choices")
	}
	return parseBackendJSON(resp.Choices[0].Message.Content)
}

func (s *Semantic) buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Analise o texto de um site de leilão e extraia as informações do imóvel.\n")
	b.WriteString("Retorne apenas um objeto JSON com os seguintes campos, quando encontrados:\n")
	for _, f := range semanticTargetFields {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\nTexto:\n")
	b.WriteString(truncateRunes(text, s.maxExcerpt()))
	return b.String()
}

func (s *Semantic) maxExcerpt() int {
	if s.MaxExcerptChars > 0 {
		return s.MaxExcerptChars
	}
	return 4000
}

// parseBackendJSON enforces the JSON-only contract. The only tolerance is a
// markdown code fence around the object, which some models insist on.
func parseBackendJSON(raw string) (record.RawFieldMap, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse backend response: %w", err)
	}
	fields := record.RawFieldMap{}
	for _, k := range semanticTargetFields {
		v, ok := payload[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				fields[k] = strings.TrimSpace(t)
			}
		case float64:
			fields[k] = t
		}
	}
	return fields, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
