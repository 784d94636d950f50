package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestBookingDecisionCounter(t *testing.T) {
	before := testutil.ToFloat64(bookingDecisions.WithLabelValues("APPROVED"))
	IncBookingDecision("APPROVED")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingDecisions.WithLabelValues("APPROVED")))
}

func TestRequestedCounter(t *testing.T) {
	before := testutil.ToFloat64(bookingsRequested)
	IncBookingRequested()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsRequested))
}
