package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecorderHandler(t *testing.T) {
	r := New()

	r.ObserveHTTP(http.MethodGet, "/api/v1/predictions", http.StatusOK, 20*time.Millisecond)
	r.ObservePrediction(PredictionComputed, 0.72, 15*time.Millisecond)
	r.ObservePrediction(PredictionInsufficient, 0.1, time.Millisecond)
	r.ObserveChatReply(ReplySourceFallback)
	r.ObserveRateLimited("chat")

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`dailymood_http_requests_total{method="GET",route="/api/v1/predictions",status="200"} 1`,
		`dailymood_prediction_requests_total{outcome="computed"} 1`,
		`dailymood_prediction_requests_total{outcome="insufficient_data"} 1`,
		`dailymood_chat_replies_total{source="fallback"} 1`,
		`dailymood_http_rate_limited_total{limiter="chat"} 1`,
		"dailymood_prediction_confidence_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder

	r.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	r.ObservePrediction(PredictionFailed, 0, time.Millisecond)
	r.ObserveChatReply(ReplySourceLLM)
	r.ObserveRateLimited("api")

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 from a nil recorder, got %d", w.Code)
	}
}
