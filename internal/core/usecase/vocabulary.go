package usecase

import "strings"

// Vocabulary is the learned set of domain words shared by the question
// analyzer, query reranker and format selector. It is built once at startup
// and passed by reference; all lookups are read-only.
type Vocabulary struct {
	subjects        map[string]struct{}
	technicalTerms  map[string]struct{}
	actionVerbs     map[string]struct{}
	temporalMarkers map[string]struct{}
	sequenceMarkers map[string]struct{}
	languageNames   map[string]struct{}
	stopWords       map[string]struct{}
}

func NewVocabulary() *Vocabulary {
	v := &Vocabulary{
		subjects:        make(map[string]struct{}),
		technicalTerms:  make(map[string]struct{}),
		actionVerbs:     make(map[string]struct{}),
		temporalMarkers: make(map[string]struct{}),
		sequenceMarkers: make(map[string]struct{}),
		languageNames:   make(map[string]struct{}),
		stopWords:       make(map[string]struct{}),
	}
	v.initializeSubjects()
	v.initializeTechnicalTerms()
	v.initializeActionVerbs()
	v.initializeMarkers()
	v.initializeLanguageNames()
	v.initializeStopWords()
	return v
}

func (v *Vocabulary) initializeSubjects() {
	addAll(v.subjects,
		"algorithm", "algorithms", "array", "tree", "graph", "stack", "queue",
		"recursion", "sorting", "searching", "hashing", "complexity",
		"mathematics", "calculus", "algebra", "geometry", "statistics",
		"probability", "physics", "chemistry", "biology", "economics",
		"database", "networking", "operating", "compiler", "machine",
		"learning", "neural", "network", "regression", "classification",
		"history", "geography", "literature", "grammar", "philosophy",
	)
}

func (v *Vocabulary) initializeTechnicalTerms() {
	addAll(v.technicalTerms,
		"function", "variable", "pointer", "memory", "thread", "process",
		"protocol", "encryption", "compiler", "interpreter", "runtime",
		"kernel", "cache", "index", "query", "schema", "transaction",
		"integral", "derivative", "matrix", "vector", "theorem", "equation",
		"molecule", "atom", "enzyme", "neuron", "synapse", "chromosome",
		"inheritance", "polymorphism", "abstraction", "encapsulation",
		"iteration", "traversal", "optimization", "normalization",
	)
}

func (v *Vocabulary) initializeActionVerbs() {
	addAll(v.actionVerbs,
		"create", "build", "install", "configure", "run", "execute", "write",
		"compile", "debug", "test", "deploy", "implement", "define", "declare",
		"initialize", "insert", "delete", "update", "remove", "add", "open",
		"close", "start", "stop", "set", "select", "click", "type", "press",
		"calculate", "solve", "derive", "measure", "mix", "combine",
	)
}

func (v *Vocabulary) initializeMarkers() {
	addAll(v.temporalMarkers,
		"before", "after", "then", "next", "finally", "later", "earlier",
		"during", "meanwhile", "afterwards", "eventually", "once", "when",
	)
	addAll(v.sequenceMarkers,
		"first", "second", "third", "fourth", "fifth", "step", "next",
		"then", "finally", "lastly", "begin", "subsequently",
	)
}

func (v *Vocabulary) initializeLanguageNames() {
	addAll(v.languageNames,
		"python", "java", "javascript", "typescript", "golang", "rust",
		"ruby", "php", "swift", "kotlin", "scala", "haskell", "perl",
		"sql", "html", "css", "bash", "matlab", "fortran", "cobol",
	)
}

func (v *Vocabulary) initializeStopWords() {
	addAll(v.stopWords,
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "about", "into", "over", "after", "is",
		"are", "was", "were", "be", "been", "being", "have", "has", "had",
		"do", "does", "did", "will", "would", "can", "could", "should",
		"may", "might", "this", "that", "these", "those", "it", "its",
		"what", "which", "who", "how", "why", "where", "when", "there",
	)
}

func (v *Vocabulary) IsSubject(word string) bool {
	_, ok := v.subjects[strings.ToLower(word)]
	return ok
}

func (v *Vocabulary) IsTechnicalTerm(word string) bool {
	_, ok := v.technicalTerms[strings.ToLower(word)]
	return ok
}

func (v *Vocabulary) IsActionVerb(word string) bool {
	_, ok := v.actionVerbs[strings.ToLower(word)]
	return ok
}

func (v *Vocabulary) IsTemporalMarker(word string) bool {
	_, ok := v.temporalMarkers[strings.ToLower(word)]
	return ok
}

func (v *Vocabulary) IsSequenceMarker(word string) bool {
	_, ok := v.sequenceMarkers[strings.ToLower(word)]
	return ok
}

func (v *Vocabulary) IsLanguageName(word string) bool {
	_, ok := v.languageNames[strings.ToLower(word)]
	return ok
}

func (v *Vocabulary) IsStopWord(word string) bool {
	_, ok := v.stopWords[strings.ToLower(word)]
	return ok
}

func addAll(dst map[string]struct{}, words ...string) {
	for _, w := range words {
		dst[w] = struct{}{}
	}
}
