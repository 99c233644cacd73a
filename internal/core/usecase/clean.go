package usecase

import (
	"regexp"
	"strings"

	"github.com/scholara/answer-engine/internal/core/domain"
)

const generalTopic = "General"

// ContentCleaner repairs extraction artifacts and segments passages into
// snippets, topics, steps and code blocks. Snippet order preserves source
// passage order; the "General" topic is the catch-all bucket.
type ContentCleaner struct{}

func NewContentCleaner() *ContentCleaner {
	return &ContentCleaner{}
}

var (
	pageMarkerRe  = regexp.MustCompile(`(?mi)^\s*(?:-{0,3}\s*page\s+\d+(?:\s+of\s+\d+)?\s*-{0,3}|\d+\s*\|\s*page)\s*$`)
	citationRe    = regexp.MustCompile(`\[\d+(?:\s*,\s*\d+)*\]`)
	hyphenBreakRe = regexp.MustCompile(`(\pL)-\r?\n\s*(\pL)`)
	fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\n?(.*?)```")
	stepLineRe    = regexp.MustCompile(`(?i)^\s*(?:step\s+(\d+)[:.)]?|(\d+)[.)])\s+(.+)$`)
	headingLineRe = regexp.MustCompile(`^\d+(?:\.\d+)+\.?\s+\S`)
	multiSpaceRe  = regexp.MustCompile(`[ \t]{2,}`)
)

// splitWordRepairs fixes words the PDF extractor split mid-token. Patterns
// match case-insensitively on the text itself and apply in a fixed order.
var splitWordRepairs = []struct {
	broken *regexp.Regexp
	fixed  string
}{
	{regexp.MustCompile(`(?i)compile d`), "compiled"},
	{regexp.MustCompile(`(?i)functi on`), "function"},
	{regexp.MustCompile(`(?i)algorith m`), "algorithm"},
	{regexp.MustCompile(`(?i)variab le`), "variable"},
	{regexp.MustCompile(`(?i)databas e`), "database"},
	{regexp.MustCompile(`(?i)program ming`), "programming"},
	{regexp.MustCompile(`(?i)n ode`), "node"},
	{regexp.MustCompile(`(?i)poin ter`), "pointer"},
}

func (c *ContentCleaner) Process(passages []domain.PassageScore) domain.CleanedContent {
	content := domain.CleanedContent{
		Snippets:   []domain.Snippet{},
		Topics:     map[string][]string{},
		TopicOrder: []string{},
		CodeBlocks: []string{},
		Steps:      []string{},
	}

	seen := make(map[string]struct{}, len(passages))
	cleaned := make([]string, 0, len(passages))
	for _, p := range passages {
		text := c.repairText(p.Text)
		if text == "" {
			continue
		}
		key := strings.ToLower(strings.Join(strings.Fields(text), " "))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, text)
	}

	for _, text := range cleaned {
		code, remainder := extractCodeBlocks(text)
		content.CodeBlocks = append(content.CodeBlocks, code...)
		content.Steps = append(content.Steps, extractSteps(remainder)...)
		content.Snippets = append(content.Snippets, segmentSnippets(remainder)...)
	}

	groupTopics(&content)
	return content
}

// repairText strips page markers and citation brackets, rejoins hyphen-broken
// words across line wraps and applies the known split-word repairs.
func (c *ContentCleaner) repairText(text string) string {
	text = pageMarkerRe.ReplaceAllString(text, "")
	text = citationRe.ReplaceAllString(text, "")
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")

	for _, repair := range splitWordRepairs {
		text = repair.broken.ReplaceAllString(text, repair.fixed)
	}

	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func extractCodeBlocks(text string) (blocks []string, remainder string) {
	matches := fencedBlockRe.FindAllStringSubmatch(text, -1)
	for _, m := range matches {
		block := strings.Trim(m[1], "\n")
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	remainder = fencedBlockRe.ReplaceAllString(text, "")
	return blocks, remainder
}

// extractSteps collects numbered and "Step N" lines, stripping the numeral.
func extractSteps(text string) []string {
	steps := []string{}
	for _, line := range strings.Split(text, "\n") {
		if m := stepLineRe.FindStringSubmatch(line); m != nil {
			step := strings.TrimSpace(m[3])
			if step != "" {
				steps = append(steps, step)
			}
		}
	}
	return steps
}

// segmentSnippets splits text into paragraph-level snippets, promoting short
// "Label: content" prefixes to headers and converting inline enumerations of
// more than two items into list items.
func segmentSnippets(text string) []domain.Snippet {
	snippets := []domain.Snippet{}
	for _, para := range splitParagraphs(text) {
		label, rest, ok := splitLabelPrefix(para)
		if ok {
			snippets = append(snippets, domain.Snippet{Text: label, IsHeader: true})
			para = rest
		}
		if para == "" {
			continue
		}
		if items := inlineListItems(para); len(items) > 2 {
			for _, item := range items {
				snippets = append(snippets, domain.Snippet{Text: item, IsList: true})
			}
			continue
		}
		snippets = append(snippets, domain.Snippet{Text: para})
	}
	return snippets
}

func splitParagraphs(text string) []string {
	paras := []string{}
	for _, raw := range strings.Split(text, "\n\n") {
		var buf []string
		flush := func() {
			if len(buf) > 0 {
				paras = append(paras, strings.Join(buf, " "))
				buf = nil
			}
		}
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			// Heading-like lines stand alone; everything else merges into
			// the surrounding paragraph.
			if looksLikeHeading(line) {
				flush()
				paras = append(paras, line)
				continue
			}
			buf = append(buf, line)
		}
		flush()
	}
	return paras
}

// splitLabelPrefix promotes a short "Label: content" prefix to a header.
func splitLabelPrefix(para string) (label, rest string, ok bool) {
	idx := strings.Index(para, ": ")
	if idx <= 0 || idx > 40 {
		return "", "", false
	}
	label = strings.TrimSpace(para[:idx])
	if strings.ContainsAny(label, ".!?") || len(strings.Fields(label)) > 5 {
		return "", "", false
	}
	return label, strings.TrimSpace(para[idx+2:]), true
}

// inlineListItems breaks a comma/"and"-separated enumeration into items when
// every item is short enough to read as a list entry.
func inlineListItems(para string) []string {
	if strings.Count(para, ",") < 2 {
		return nil
	}
	normalized := strings.ReplaceAll(para, ", and ", ", ")
	normalized = strings.ReplaceAll(normalized, " and ", ", ")
	parts := strings.Split(normalized, ",")

	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(strings.TrimRight(part, "."))
		if item == "" {
			return nil
		}
		if len(strings.Fields(item)) > 6 {
			return nil
		}
		items = append(items, item)
	}
	return items
}

// groupTopics walks the snippets and opens a new topic at every heading-like
// snippet: numbered headings, ALL-CAPS lines and short colon-terminated
// labels. Everything else accumulates under the current topic.
func groupTopics(content *domain.CleanedContent) {
	current := generalTopic
	addTopic := func(name string) {
		if _, exists := content.Topics[name]; !exists {
			content.Topics[name] = []string{}
			content.TopicOrder = append(content.TopicOrder, name)
		}
	}

	for _, snippet := range content.Snippets {
		if snippet.IsHeader || looksLikeHeading(snippet.Text) {
			current = strings.TrimRight(strings.TrimSpace(snippet.Text), ":")
			addTopic(current)
			continue
		}
		addTopic(current)
		content.Topics[current] = append(content.Topics[current], snippet.Text)
	}

	// Drop topics that ended up with no body text.
	order := content.TopicOrder[:0]
	for _, name := range content.TopicOrder {
		if len(content.Topics[name]) == 0 {
			delete(content.Topics, name)
			continue
		}
		order = append(order, name)
	}
	content.TopicOrder = order
}

func looksLikeHeading(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if headingLineRe.MatchString(line) {
		return true
	}
	if isAllCaps(line) && len(strings.Fields(line)) <= 8 {
		return true
	}
	return strings.HasSuffix(line, ":") && len(line) <= 60
}

func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
