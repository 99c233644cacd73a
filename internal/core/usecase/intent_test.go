package usecase

import (
	"context"
	"testing"

	"github.com/scholara/answer-engine/internal/core/domain"
)

func TestClassifyDegradesWhenEmbedderFails(t *testing.T) {
	classifier := NewIntentClassifier(&hashEmbedder{fail: true}, testLogger())

	result := classifier.Classify(context.Background(), "how do I sort a list?")
	if result.Intent != domain.IntentGeneral {
		t.Fatalf("expected general fallback, got %q", result.Intent)
	}
	if result.Confidence != 0 {
		t.Fatalf("degraded classification must carry zero confidence, got %v", result.Confidence)
	}
	if result.QuestionType != domain.QuestionHow {
		t.Fatalf("question type detection must survive embed failure, got %q", result.QuestionType)
	}
}

func TestClassifyRecoversAfterEmbedderComesBack(t *testing.T) {
	embedder := &hashEmbedder{fail: true}
	classifier := NewIntentClassifier(embedder, testLogger())
	ctx := context.Background()

	if got := classifier.Classify(ctx, "hello there"); got.Intent != domain.IntentGeneral {
		t.Fatalf("expected degraded fallback, got %q", got.Intent)
	}

	// A failed prototype embed must not be memoized.
	embedder.fail = false
	result := classifier.Classify(ctx, "a greeting or small talk like hello, hi, good morning, how are you")
	if result.Intent != domain.IntentGreeting {
		t.Fatalf("expected greeting after recovery, got %q (confidence %v)", result.Intent, result.Confidence)
	}
}

func TestClassifyMatchesClosestPrototype(t *testing.T) {
	classifier := NewIntentClassifier(&hashEmbedder{}, testLogger())

	result := classifier.Classify(context.Background(),
		"current events, recent news, latest releases or anything requiring fresh web information")
	if result.Intent != domain.IntentWebSearch {
		t.Fatalf("expected web search intent, got %q", result.Intent)
	}
	if result.Confidence <= 0.9 {
		t.Fatalf("verbatim prototype match should score near 1, got %v", result.Confidence)
	}
	if result.MultipleIntents {
		t.Fatalf("clear winner must not report multiple intents: %+v", result)
	}
}

func TestClassifyFlagsAmbiguousQuestions(t *testing.T) {
	classifier := NewIntentClassifier(&hashEmbedder{}, testLogger())

	// An empty question scores every label at zero, so best and runner-up
	// sit within the ambiguity margin.
	result := classifier.Classify(context.Background(), "")
	if !result.MultipleIntents {
		t.Fatalf("expected ambiguity flag, got %+v", result)
	}
}

func TestDetectQuestionType(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"", domain.QuestionOther},
		{"redis versus memcached", domain.QuestionCompare},
		{"types of indexes", domain.QuestionList},
		{"define idempotency", domain.QuestionDefinition},
		{"what is sharding?", domain.QuestionWhat},
		{"how does paging work?", domain.QuestionHow},
		{"why use checksums?", domain.QuestionWhy},
		{"tell me a story", domain.QuestionOther},
	}
	for _, tc := range cases {
		if got := detectQuestionType(tc.question); got != tc.want {
			t.Fatalf("detectQuestionType(%q) = %q, want %q", tc.question, got, tc.want)
		}
	}
}
