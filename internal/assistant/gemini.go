package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// GeminiService implements Service over the Gemini API.
type GeminiService struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiService creates a Gemini-backed tutor. apiKey must be non-empty;
// callers without a key should use NewDisabledService instead.
func NewGeminiService(ctx context.Context, apiKey, model string, log *slog.Logger) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client: client,
		model:  model,
		logger: log.With(slog.String("component", "assistant")),
	}, nil
}

// Ensure GeminiService implements Service
var _ Service = (*GeminiService)(nil)

// Available implements Service.Available
func (s *GeminiService) Available() bool { return true }

// Chat implements Service.Chat
func (s *GeminiService) Chat(ctx context.Context, messages []Message, chatCtx ChatContext) (*Message, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(buildSystemPrompt(chatCtx), genai.RoleUser),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, cfg)
	if err != nil {
		s.logger.Error("gemini call failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty reply from model")
	}

	return &Message{Role: RoleAssistant, Content: text}, nil
}

// buildSystemPrompt assembles the tutor instructions from the screen and
// item context.
func buildSystemPrompt(chatCtx ChatContext) string {
	parts := []string{
		"You are a Chinese language tutor embedded in HanziFlow, a personal Chinese learning app.",
		"The student is learning Mandarin Chinese at HSK 1-2 level.",
		"Use Chinese characters with pinyin when teaching.",
		"Keep answers concise and practical. The student is in the middle of a study session.",
	}

	if chatCtx.Screen != "" {
		parts = append(parts, fmt.Sprintf("The student is currently on the %q screen.", chatCtx.Screen))
	}
	if chatCtx.ItemChar != "" && chatCtx.ItemType != "" {
		parts = append(parts,
			fmt.Sprintf("They are looking at the %s: %s.", chatCtx.ItemType, chatCtx.ItemChar),
			"If they ask about this item, cover etymology, radicals, stroke order tips, usage examples and mnemonics.")
	}

	return strings.Join(parts, "\n")
}
