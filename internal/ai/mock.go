package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexus-manager/backend/internal/utils"
)

// MockGenerator produces deterministic offline responses keyed off the
// prompt hash, shaped to whatever JSON contract the prompt embeds. Used in
// dev mode and tests.
type MockGenerator struct{}

func (MockGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	h := utils.PromptSeed(req.Prompt)

	switch {
	case strings.Contains(req.Prompt, `"summaryHtml"`):
		return fmt.Sprintf(`{"summaryHtml":"<b>Offline analysis.</b> Review generated without an AI provider (seed %d).","cardScores":[]}`, h%1000), nil
	case strings.Contains(req.Prompt, `"overallScore"`):
		base := int(h % 40)
		return fmt.Sprintf(`{"overallScore":%d,"deadlineRisk":%d,"complexityRisk":%d,"headcountRisk":%d,"competencyRisk":%d,"analysis":"Offline risk estimate."}`,
			30+base, 20+base, 25+base, 15+base, 10+base), nil
	case strings.Contains(req.Prompt, `"category"`):
		return `[{"text":"Review the current project documentation","category":"Short Term"},{"text":"Pair with a senior engineer on one task","category":"Mentoring"}]`, nil
	default:
		return fmt.Sprintf("Offline response (seed %d). Configure an AI provider in settings for real analysis.", h%1000), nil
	}
}

func (m MockGenerator) Chat(ctx context.Context, req ChatRequest) (string, error) {
	return m.Generate(ctx, GenerateRequest{Prompt: req.Message})
}
