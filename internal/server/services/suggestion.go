package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mysterymessage/internal/logging"
	"github.com/dmitrijs2005/mysterymessage/internal/server/config"
	"github.com/sashabaranov/go-openai"
)

const suggestionPrompt = "Create a list of three open-ended and engaging questions formatted as a single string. " +
	"Each question should be separated by '||'. These questions are for an anonymous social messaging platform, " +
	"like Qooh.me, and should be suitable for a diverse audience. Avoid personal or sensitive topics, focusing " +
	"instead on universal themes that encourage friendly interaction."

// FallbackSuggestions is served whenever the model cannot be reached.
const FallbackSuggestions = "What's something you've always wanted to try?||" +
	"If you could live in any fictional world, where would it be?||" +
	"What's a random fun fact you recently learned?"

// Suggestion is a '||'-separated list of conversation starters.
type Suggestion struct {
	Message  string
	Fallback bool
}

// chatCompleter is the slice of *openai.Client the service needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type SuggestionService struct {
	client chatCompleter
	model  string
	logger logging.Logger
}

func NewSuggestionService(logger logging.Logger, cfg *config.Config) *SuggestionService {
	s := &SuggestionService{
		model:  cfg.OpenAIModel,
		logger: logger.With("module", "suggestions"),
	}
	if cfg.OpenAIAPIKey != "" {
		c := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			c.BaseURL = cfg.OpenAIBaseURL
		}
		s.client = openai.NewClientWithConfig(c)
	}
	return s
}

// Suggest never fails: any upstream problem yields FallbackSuggestions.
func (s *SuggestionService) Suggest(ctx context.Context) Suggestion {
	if s.client == nil {
		return Suggestion{Message: FallbackSuggestions, Fallback: true}
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: suggestionPrompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			s.logger.Warn(ctx, "suggestion provider rate limited")
		} else {
			s.logger.Error(ctx, "suggestion provider failed", "error", err)
		}
		return Suggestion{Message: FallbackSuggestions, Fallback: true}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		s.logger.Warn(ctx, "suggestion provider returned no content")
		return Suggestion{Message: FallbackSuggestions, Fallback: true}
	}

	return Suggestion{Message: strings.TrimSpace(resp.Choices[0].Message.Content)}
}
