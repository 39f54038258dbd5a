package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/gophattend/internal/server/services"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.ChallengeIssued()
	r.ChallengeIssued()
	r.SubmissionObserved(services.OutcomeCheckedIn, "")
	r.SubmissionObserved(services.OutcomeRejected, "already_used")
	r.SubmissionObserved(services.OutcomeRejected, "already_used")
	r.RegistrationObserved("")
	r.RegistrationObserved("duplicate_identity")
	r.RequestHandled("/gophattend.AttendanceService/Submit", "OK")
	r.RateLimited()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.challenges))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.submissions.WithLabelValues("checked_in", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.submissions.WithLabelValues("rejected", "already_used")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.registrations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.registrations.WithLabelValues("duplicate_identity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rateLimited))
	assert.Equal(t, 1, testutil.CollectAndCount(r.requests))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.ChallengeIssued()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "gophattend_challenges_issued_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
