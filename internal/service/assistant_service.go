package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bizpilot-ledger/internal/model"

	"go.uber.org/zap"
)

const (
	FallbackDescription = "Expertly sourced product for your daily needs."
	FallbackInsight     = "Keep up the great sales momentum!"

	DefaultAssistantTimeout = 15 * time.Second
)

var descriptionTemperature float32 = 0.7

// TextGenerator produces free text for a prompt. A nil temperature keeps the
// generator's default.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, temperature *float32) (string, error)
}

// AssistantService never fails: any generator error, timeout or empty answer
// resolves to a fallback string.
type AssistantService interface {
	GenerateProductDescription(ctx context.Context, name, category string) string
	AnalyzeSales(ctx context.Context, sales []model.Sale) string
	GenerateDescriptionAsync(ctx context.Context, name, category string, deliver func(string))
	AnalyzeSalesAsync(ctx context.Context, sales []model.Sale, deliver func(string))
}

type assistantService struct {
	generator TextGenerator // nil when no API key is configured
	timeout   time.Duration
	logger    *zap.Logger
}

func NewAssistantService(generator TextGenerator, timeout time.Duration, logger *zap.Logger) AssistantService {
	if timeout <= 0 {
		timeout = DefaultAssistantTimeout
	}
	return &assistantService{
		generator: generator,
		timeout:   timeout,
		logger:    logger.Named("assistant"),
	}
}

func (s *assistantService) GenerateProductDescription(ctx context.Context, name, category string) string {
	prompt := fmt.Sprintf(
		"Generate a short, catchy 2-sentence marketing description for a product named %q in the category %q for an African retail shop.",
		name, category,
	)
	return s.generate(ctx, "description", prompt, &descriptionTemperature, FallbackDescription)
}

func (s *assistantService) AnalyzeSales(ctx context.Context, sales []model.Sale) string {
	if len(sales) == 0 {
		return FallbackInsight
	}
	data, err := json.Marshal(sales)
	if err != nil {
		s.logger.Error("encode sales for insight", zap.Error(err))
		return FallbackInsight
	}
	prompt := fmt.Sprintf(
		"Analyze this sales data and provide 3 quick bullet points of insight: %s",
		data,
	)
	return s.generate(ctx, "insight", prompt, nil, FallbackInsight)
}

func (s *assistantService) GenerateDescriptionAsync(ctx context.Context, name, category string, deliver func(string)) {
	go func() {
		deliver(s.GenerateProductDescription(ctx, name, category))
	}()
}

func (s *assistantService) AnalyzeSalesAsync(ctx context.Context, sales []model.Sale, deliver func(string)) {
	go func() {
		deliver(s.AnalyzeSales(ctx, sales))
	}()
}

func (s *assistantService) generate(ctx context.Context, kind, prompt string, temperature *float32, fallback string) string {
	if s.generator == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := s.generator.Generate(ctx, prompt, temperature)
		done <- result{text, err}
	}()

	var text string
	var err error
	select {
	case r := <-done:
		text, err = r.text, r.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Warn("text generation failed, using fallback", zap.String("kind", kind), zap.Error(err))
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}
