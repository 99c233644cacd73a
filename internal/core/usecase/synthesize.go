package usecase

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/scholara/answer-engine/internal/core/domain"
)

const (
	noInformationAnswer = "I could not find relevant information for your question in the available sources. Try rephrasing it or uploading a document that covers the topic."

	maxAnswerSources = 5
	sourcePreviewLen = 200
)

// AnswerSynthesizer assembles the final formatted answer purely from cleaned
// retrieved text. No generative model is involved; the same inputs always
// produce the same answer.
type AnswerSynthesizer struct {
	cleaner *ContentCleaner
}

func NewAnswerSynthesizer(cleaner *ContentCleaner) *AnswerSynthesizer {
	return &AnswerSynthesizer{cleaner: cleaner}
}

func (s *AnswerSynthesizer) Generate(question string, passages []domain.PassageScore, format string) domain.GenerationResult {
	if len(passages) == 0 {
		return domain.GenerationResult{
			Answer:     noInformationAnswer,
			Confidence: 0,
			Sources:    []domain.Source{},
			Snippets:   []string{},
			Method:     "no_context",
		}
	}

	content := s.cleaner.Process(passages)

	var body string
	method := format
	switch format {
	case domain.FormatTable:
		body = renderTable(content)
	case domain.FormatBullets:
		body = renderBullets(content)
	case domain.FormatSteps:
		body = renderSteps(content)
	case domain.FormatCode:
		body = renderCode(content)
	default:
		body = renderNarrative(content)
		method = domain.FormatNarrative
	}

	if strings.TrimSpace(body) == "" {
		body = renderNarrative(content)
		method = domain.FormatNarrative
	}
	body += "\n\n" + referenceLink(question)

	snippets := make([]string, 0, len(content.Snippets))
	for _, snip := range content.Snippets {
		snippets = append(snippets, snip.Text)
	}

	return domain.GenerationResult{
		Answer:     body,
		Confidence: synthesisConfidence(passages, len(snippets)),
		Sources:    collectSources(passages),
		Snippets:   snippets,
		Method:     method,
	}
}

// referenceLink builds the deterministic web-search link appended to every
// answer; it derives from the verbatim question text, never a constant.
func referenceLink(question string) string {
	return fmt.Sprintf("[Related search](https://www.google.com/search?q=%s)", url.QueryEscape(question))
}

// synthesisConfidence derives from passage scores and snippet coverage only,
// never from answer length.
func synthesisConfidence(passages []domain.PassageScore, snippetCount int) float64 {
	scores := make([]float64, len(passages))
	for i, p := range passages {
		scores[i] = p.FinalScore
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	top := scores[0]
	topN := len(scores)
	if topN > 3 {
		topN = 3
	}
	sum := 0.0
	for _, s := range scores[:topN] {
		sum += s
	}
	avgTop3 := sum / float64(topN)

	coverage := float64(snippetCount) / 3.0
	if coverage > 1 {
		coverage = 1
	}
	return clamp01(0.5*top + 0.3*avgTop3 + 0.2*coverage)
}

func collectSources(passages []domain.PassageScore) []domain.Source {
	limit := len(passages)
	if limit > maxAnswerSources {
		limit = maxAnswerSources
	}
	sources := make([]domain.Source, 0, limit)
	for _, p := range passages[:limit] {
		preview := p.Text
		if runes := []rune(preview); len(runes) > sourcePreviewLen {
			preview = string(runes[:sourcePreviewLen]) + "…"
		}
		sources = append(sources, domain.Source{
			ID:        p.ID,
			Title:     p.Metadata["title"],
			Preview:   preview,
			URL:       p.Metadata["url"],
			Relevance: p.FinalScore,
		})
	}
	return sources
}

func renderTable(content domain.CleanedContent) string {
	var b strings.Builder
	b.WriteString("| Topic | Details |\n|---|---|\n")

	// A lone catch-all topic would collapse the table into one row; the
	// per-snippet layout carries more signal in that case.
	onlyGeneral := len(content.TopicOrder) == 1 && content.TopicOrder[0] == generalTopic

	rows := 0
	if len(content.TopicOrder) > 0 && !onlyGeneral {
		for _, topic := range content.TopicOrder {
			details := strings.Join(content.Topics[topic], " ")
			b.WriteString("| " + escapeCell(topic) + " | " + escapeCell(details) + " |\n")
			rows++
		}
	} else {
		for _, snip := range content.Snippets {
			label, value, ok := splitLabelPrefix(snip.Text)
			if !ok {
				label, value = "Note", snip.Text
			}
			b.WriteString("| " + escapeCell(label) + " | " + escapeCell(value) + " |\n")
			rows++
		}
	}
	if rows == 0 {
		return ""
	}
	return strings.TrimRight(b.String(), "\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func renderBullets(content domain.CleanedContent) string {
	lines := []string{}
	for _, snip := range content.Snippets {
		if snip.IsHeader {
			continue
		}
		text := snip.Text
		if label, rest, ok := splitLabelPrefix(text); ok {
			text = "**" + label + "**: " + rest
		}
		lines = append(lines, "- "+text)
	}
	return strings.Join(lines, "\n")
}

var leadingNumeralRe = regexp.MustCompile(`(?i)^\s*(?:step\s+\d+[:.)]?|\d+[.)])\s*`)

func renderSteps(content domain.CleanedContent) string {
	steps := content.Steps
	if len(steps) == 0 {
		for _, snip := range content.Snippets {
			if !snip.IsHeader {
				steps = append(steps, snip.Text)
			}
		}
	}

	lines := make([]string, 0, len(steps))
	for i, step := range steps {
		step = leadingNumeralRe.ReplaceAllString(step, "")
		lines = append(lines, fmt.Sprintf("**Step %d.** %s", i+1, strings.TrimSpace(step)))
	}
	return strings.Join(lines, "\n\n")
}

func renderCode(content domain.CleanedContent) string {
	if len(content.CodeBlocks) > 0 {
		blocks := make([]string, 0, len(content.CodeBlocks))
		for _, block := range content.CodeBlocks {
			blocks = append(blocks, "```\n"+block+"\n```")
		}
		return strings.Join(blocks, "\n\n")
	}

	lines := []string{}
	for _, snip := range content.Snippets {
		lines = append(lines, snip.Text)
	}
	if len(lines) == 0 {
		return ""
	}
	return "```\n" + strings.Join(lines, "\n") + "\n```"
}

func renderNarrative(content domain.CleanedContent) string {
	var b strings.Builder

	if len(content.TopicOrder) == 0 {
		return joinProse(content.Snippets)
	}

	for i, topic := range content.TopicOrder {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if topic != generalTopic {
			if isMajorTopic(topic) {
				b.WriteString("## " + topic + "\n\n")
			} else {
				b.WriteString("### " + topic + "\n\n")
			}
		}
		b.WriteString(mergeParagraphs(content.Topics[topic]))
	}
	return strings.TrimSpace(b.String())
}

// isMajorTopic treats numbered and ALL-CAPS labels as top-level sections.
func isMajorTopic(topic string) bool {
	return headingLineRe.MatchString(topic) || isAllCaps(topic)
}

// mergeParagraphs merges consecutive non-list, non-colon-terminated details
// into flowing paragraphs while keeping list blocks as-is.
func mergeParagraphs(details []string) string {
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, detail := range details {
		if strings.HasPrefix(detail, "- ") || strings.HasSuffix(detail, ":") {
			flush()
			paragraphs = append(paragraphs, detail)
			continue
		}
		current = append(current, detail)
	}
	flush()
	return strings.Join(paragraphs, "\n\n")
}

func joinProse(snippets []domain.Snippet) string {
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, snip := range snippets {
		switch {
		case snip.IsList:
			flush()
			paragraphs = append(paragraphs, "- "+snip.Text)
		case snip.IsHeader:
			flush()
			paragraphs = append(paragraphs, "**"+snip.Text+"**")
		default:
			current = append(current, snip.Text)
		}
	}
	flush()
	return strings.Join(paragraphs, "\n\n")
}
