package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRenderExposesAssessmentMetrics(t *testing.T) {
	IncAssessmentStarted()
	IncAssessmentCompleted()
	ObserveAssessmentDurationMs(7)
	ObserveAssessmentDurationMs(-3)

	out := Render()
	for _, want := range []string{
		"# TYPE assessments_started_total counter",
		"# TYPE assessments_failed_total counter",
		"# TYPE assessment_duration_ms histogram",
		`assessment_duration_ms_bucket{le="10"}`,
		`assessment_duration_ms_bucket{le="+Inf"}`,
		"reports_persisted_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestHistogramBuckets(t *testing.T) {
	h := newHistogram([]float64{1, 10})
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)
	snap := h.Snapshot()
	if snap.count != 3 || snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}
