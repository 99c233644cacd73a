package usecase

import (
	"strings"
	"testing"

	"github.com/scholara/answer-engine/internal/core/domain"
)

func TestProcessDeduplicatesNormalizedText(t *testing.T) {
	cleaner := NewContentCleaner()
	content := cleaner.Process([]domain.PassageScore{
		scoredPassage("a", "Hash tables give constant average lookups.", 0.9),
		scoredPassage("b", "Hash   tables give constant\naverage lookups.", 0.8),
	})

	if len(content.Snippets) != 1 {
		t.Fatalf("expected whitespace-variant duplicate collapsed, got %d snippets", len(content.Snippets))
	}
}

func TestProcessRepairsExtractionArtifacts(t *testing.T) {
	cleaner := NewContentCleaner()
	content := cleaner.Process([]domain.PassageScore{
		scoredPassage("a",
			"--- Page 3 of 12 ---\nThe algorith m stores each n ode in a data-\nbase table [1, 2].", 0.9),
	})

	if len(content.Snippets) != 1 {
		t.Fatalf("expected a single snippet, got %+v", content.Snippets)
	}
	got := content.Snippets[0].Text
	want := "The algorithm stores each node in a database table ."
	if got != want {
		t.Fatalf("repair mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestProcessRepairsSplitWordsPastMultibyteRunes(t *testing.T) {
	cleaner := NewContentCleaner()
	// Runes whose lowercase form is longer in bytes (U+023A lowercases from 2
	// to 3 bytes) must not shift where a split-word repair lands.
	prefix := strings.Repeat("Ⱥ", 20)
	content := cleaner.Process([]domain.PassageScore{
		scoredPassage("a", prefix+" compile d once, Functi on twice", 0.9),
	})

	if len(content.Snippets) != 1 {
		t.Fatalf("expected one snippet, got %+v", content.Snippets)
	}
	want := prefix + " compiled once, function twice"
	if got := content.Snippets[0].Text; got != want {
		t.Fatalf("repair mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestProcessExtractsStepsAndCode(t *testing.T) {
	cleaner := NewContentCleaner()
	text := "Install instructions.\n" +
		"1. Download the binary.\n" +
		"Step 2: Unpack the archive.\n" +
		"3) Run the installer.\n\n" +
		"```go\nfmt.Println(\"done\")\n```"
	content := cleaner.Process([]domain.PassageScore{scoredPassage("a", text, 0.9)})

	wantSteps := []string{"Download the binary.", "Unpack the archive.", "Run the installer."}
	if len(content.Steps) != len(wantSteps) {
		t.Fatalf("expected %d steps, got %v", len(wantSteps), content.Steps)
	}
	for i, want := range wantSteps {
		if content.Steps[i] != want {
			t.Fatalf("step %d: got %q want %q", i, content.Steps[i], want)
		}
	}

	if len(content.CodeBlocks) != 1 {
		t.Fatalf("expected one code block, got %v", content.CodeBlocks)
	}
	if content.CodeBlocks[0] != "fmt.Println(\"done\")" {
		t.Fatalf("unexpected code block %q", content.CodeBlocks[0])
	}
}

func TestProcessGroupsSnippetsByHeading(t *testing.T) {
	cleaner := NewContentCleaner()
	text := "OVERVIEW\nCaching trades memory for latency.\n\n" +
		"2.1 Eviction\nLeast recently used entries leave first."
	content := cleaner.Process([]domain.PassageScore{scoredPassage("a", text, 0.9)})

	if len(content.TopicOrder) != 2 {
		t.Fatalf("expected two topics, got %v", content.TopicOrder)
	}
	if content.TopicOrder[0] != "OVERVIEW" {
		t.Fatalf("expected OVERVIEW topic first, got %q", content.TopicOrder[0])
	}
	if body := content.Topics["OVERVIEW"]; len(body) != 1 || body[0] != "Caching trades memory for latency." {
		t.Fatalf("unexpected OVERVIEW body %v", body)
	}
	if body := content.Topics["2.1 Eviction"]; len(body) != 1 {
		t.Fatalf("unexpected eviction body %v", body)
	}
}

func TestProcessPromotesLabelsAndInlineLists(t *testing.T) {
	cleaner := NewContentCleaner()
	content := cleaner.Process([]domain.PassageScore{
		scoredPassage("a", "Tradeoffs: arrays, linked lists, hash maps, and trees.", 0.9),
	})

	if len(content.Snippets) == 0 || !content.Snippets[0].IsHeader || content.Snippets[0].Text != "Tradeoffs" {
		t.Fatalf("expected Tradeoffs header first, got %+v", content.Snippets)
	}
	listItems := 0
	for _, s := range content.Snippets[1:] {
		if s.IsList {
			listItems++
		}
	}
	if listItems != 4 {
		t.Fatalf("expected 4 list items, got %d (%+v)", listItems, content.Snippets)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	content := NewContentCleaner().Process(nil)
	if len(content.Snippets) != 0 || len(content.TopicOrder) != 0 {
		t.Fatalf("expected empty content, got %+v", content)
	}
}
