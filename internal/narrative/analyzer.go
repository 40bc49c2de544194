package narrative

import (
	"bytes"
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"finboard/internal"
	"finboard/internal/logging"
)

// Analysis is a narrative split into named sections. FullText always holds the
// untouched model output.
type Analysis struct {
	Sections map[string]string `json:"sections"`
	FullText string            `json:"full_text"`
	HTML     string            `json:"html"`
}

type section struct {
	keyword string
	key     string
}

var (
	yearSections = []section{
		{"재무 건전성", "financial_health"},
		{"수익성 분석", "profitability"},
		{"성장성 분석", "growth"},
		{"주의사항", "warnings"},
		{"한줄 요약", "summary"},
	}
	trendSections = []section{
		{"매출 성장 추이", "revenue_trend"},
		{"수익성 변화", "profitability_trend"},
		{"자산 규모 변화", "asset_growth"},
		{"성장률 분석", "growth_rate"},
		{"미래 전망", "outlook"},
		{"종합 평가", "overall"},
	}
)

type Analyzer struct {
	provider Provider
	logger   arbor.ILogger
	markdown goldmark.Markdown
}

func NewAnalyzer(provider Provider, logger arbor.ILogger) *Analyzer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Analyzer{
		provider: provider,
		logger:   logger,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// AnalyzeYear asks for a plain-language reading of one year's statements.
func (a *Analyzer) AnalyzeYear(ctx context.Context, company string, summary internal.CanonicalSummary) (Analysis, error) {
	prompt, err := renderYearPrompt(company, summary)
	if err != nil {
		return Analysis{}, err
	}
	return a.run(ctx, company, prompt, yearSections)
}

// AnalyzeTrends asks for a reading of the multi-year series.
func (a *Analyzer) AnalyzeTrends(ctx context.Context, company string, series internal.MultiYearSeries) (Analysis, error) {
	prompt, err := renderTrendPrompt(company, series)
	if err != nil {
		return Analysis{}, err
	}
	return a.run(ctx, company, prompt, trendSections)
}

func (a *Analyzer) run(ctx context.Context, company, prompt string, sections []section) (Analysis, error) {
	text, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		return Analysis{}, err
	}
	a.logger.Info().Str("company", company).Int("chars", len(text)).Msg("narrative generated")

	return Analysis{
		Sections: parseSections(text, sections),
		FullText: text,
		HTML:     a.toHTML(text),
	}, nil
}

// parseSections walks the text line by line; a line mentioning a section keyword
// starts that section and is not part of its body.
func parseSections(text string, sections []section) map[string]string {
	out := make(map[string]string, len(sections))
	bodies := make(map[string]*strings.Builder, len(sections))
	for _, s := range sections {
		out[s.key] = ""
		bodies[s.key] = &strings.Builder{}
	}

	current := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if key, ok := headingKey(line, sections); ok {
			current = key
			continue
		}
		if current != "" && line != "" {
			bodies[current].WriteString(line)
			bodies[current].WriteByte('\n')
		}
	}

	for key, b := range bodies {
		out[key] = strings.TrimSpace(b.String())
	}
	return out
}

func headingKey(line string, sections []section) (string, bool) {
	for _, s := range sections {
		if strings.Contains(line, s.keyword) {
			return s.key, true
		}
	}
	return "", false
}

func (a *Analyzer) toHTML(text string) string {
	var buf bytes.Buffer
	if err := a.markdown.Convert([]byte(stripCodeFence(text)), &buf); err != nil {
		a.logger.Warn().Err(err).Msg("markdown conversion failed")
		return ""
	}
	return buf.String()
}

// stripCodeFence removes a fence wrapping the whole response.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return text
	}
	body := strings.TrimSuffix(trimmed, "```")
	if i := strings.Index(body, "\n"); i >= 0 {
		return strings.TrimSpace(body[i+1:])
	}
	return text
}
