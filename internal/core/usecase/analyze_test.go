package usecase

import (
	"testing"

	"github.com/scholara/answer-engine/internal/core/domain"
)

func TestAnalyzeDetectsComparison(t *testing.T) {
	analyzer := NewQuestionAnalyzer(NewVocabulary())
	analysis := analyzer.Analyze("quicksort vs mergesort for nearly sorted input?")

	if !analysis.IsComparison {
		t.Fatal("expected comparison question")
	}
	if analysis.IsProcedural || analysis.IsList {
		t.Fatalf("unexpected structure flags: %+v", analysis)
	}
	if analysis.Complexity != domain.ComplexityModerate {
		t.Fatalf("one structural signal should read as moderate, got %q", analysis.Complexity)
	}
}

func TestAnalyzeDetectsProceduralAndBuildsExpansions(t *testing.T) {
	analyzer := NewQuestionAnalyzer(NewVocabulary())
	analysis := analyzer.Analyze("How do I balance a binary tree?")

	if !analysis.IsProcedural {
		t.Fatal("expected procedural question")
	}
	wantCore := "balance a binary tree"
	var sawCore, sawExplained bool
	for _, e := range analysis.Expansions {
		if e == wantCore {
			sawCore = true
		}
		if e == wantCore+" explained" {
			sawExplained = true
		}
	}
	if !sawCore || !sawExplained {
		t.Fatalf("expected stripped core and explained variant, got %v", analysis.Expansions)
	}
}

func TestAnalyzeDetectsListQuestions(t *testing.T) {
	analyzer := NewQuestionAnalyzer(NewVocabulary())
	if !analyzer.Analyze("examples of stable sorting methods").IsList {
		t.Fatal("expected list question for 'examples of'")
	}
	if !analyzer.Analyze("list common database isolation levels").IsList {
		t.Fatal("expected list question for leading 'list'")
	}
}

func TestAnalyzeExtractsTopicsAndEntities(t *testing.T) {
	analyzer := NewQuestionAnalyzer(NewVocabulary())
	analysis := analyzer.Analyze("Does Postgres keep a btree index per graph query in Python?")

	wantTopics := map[string]bool{"graph": false, "index": false, "query": false, "python": false}
	for _, topic := range analysis.Topics {
		if _, ok := wantTopics[topic]; ok {
			wantTopics[topic] = true
		}
	}
	for topic, seen := range wantTopics {
		if !seen {
			t.Fatalf("missing topic %q in %v", topic, analysis.Topics)
		}
	}

	var sawPostgres, sawPython bool
	for _, e := range analysis.Entities {
		switch e {
		case "Postgres":
			sawPostgres = true
		case "Python":
			sawPython = true
		}
	}
	if !sawPostgres || !sawPython {
		t.Fatalf("expected capitalized entities, got %v", analysis.Entities)
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	analyzer := NewQuestionAnalyzer(NewVocabulary())

	if got := analyzer.Analyze("define recursion").Complexity; got != domain.ComplexitySimple {
		t.Fatalf("short single-signal-free question should be simple, got %q", got)
	}

	// Comparison plus procedural markers together escalate to complex.
	combined := analyzer.Analyze("how to migrate, and postgres vs mysql?")
	if combined.Complexity != domain.ComplexityComplex {
		t.Fatalf("two structural signals should be complex, got %q", combined.Complexity)
	}

	long := analyzer.Analyze("please walk through every consideration that matters when a team sizes connection pools across replicated regional clusters today")
	if long.Complexity != domain.ComplexityComplex {
		t.Fatalf("long question should be complex, got %q", long.Complexity)
	}
}

func TestAnalyzeEmptyQuestion(t *testing.T) {
	analysis := NewQuestionAnalyzer(NewVocabulary()).Analyze("   ")
	if analysis.Complexity != domain.ComplexitySimple {
		t.Fatalf("empty question should be simple, got %q", analysis.Complexity)
	}
	if len(analysis.Topics) != 0 || len(analysis.Entities) != 0 || len(analysis.Expansions) != 0 {
		t.Fatalf("empty question should carry no extractions: %+v", analysis)
	}
}
