package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/scholara/answer-engine/internal/core/ports"
	"github.com/scholara/answer-engine/internal/observability/metrics"
)

type Router struct {
	answerer ports.QuestionAnswerer
	feedback ports.FeedbackCollector
	metrics  *metrics.HTTPServerMetrics
	service  string
}

func NewRouter(
	answerer ports.QuestionAnswerer,
	feedback ports.FeedbackCollector,
	m *metrics.HTTPServerMetrics,
	service string,
) *Router {
	return &Router{
		answerer: answerer,
		feedback: feedback,
		metrics:  m,
		service:  service,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/answers", rt.answerQuestion)
	mux.HandleFunc("/v1/feedback", rt.submitFeedback)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) answerQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question    string `json:"question"`
		SessionID   string `json:"sessionId"`
		ResourceURL string `json:"resourceUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	response := rt.answerer.ProcessQuestion(r.Context(), req.Question, req.SessionID, req.ResourceURL)
	if rt.metrics != nil {
		rt.metrics.RecordAnswer(
			rt.service,
			response.Format,
			len(response.Sources),
			response.Metadata.QualityFlagged,
			time.Since(start),
		)
	}

	writeJSON(w, http.StatusOK, response)
}

func (rt *Router) submitFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		AnswerID string `json:"answerId"`
		Helpful  bool   `json:"helpful"`
		Comment  string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	fb, err := rt.feedback.Submit(r.Context(), req.AnswerID, req.Helpful, req.Comment)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordFeedback(rt.service, fb.Helpful)
	}

	writeJSON(w, http.StatusCreated, fb)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
