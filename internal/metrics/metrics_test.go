package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBooking(t *testing.T) {
	before := testutil.ToFloat64(BookingsTotal)
	RecordBooking()
	assert.Equal(t, before+1, testutil.ToFloat64(BookingsTotal))
}

func TestRecordBookingConflict(t *testing.T) {
	before := testutil.ToFloat64(BookingConflictsTotal)
	RecordBookingConflict()
	RecordBookingConflict()
	assert.Equal(t, before+2, testutil.ToFloat64(BookingConflictsTotal))
}

func TestRecordBookingTransition(t *testing.T) {
	before := testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("confirmed"))
	RecordBookingTransition("confirmed")
	assert.Equal(t, before+1, testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("confirmed")))
}

func TestRecordRegistration(t *testing.T) {
	before := testutil.ToFloat64(RegistrationsTotal.WithLabelValues("teacher"))
	RecordRegistration("teacher")
	assert.Equal(t, before+1, testutil.ToFloat64(RegistrationsTotal.WithLabelValues("teacher")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))
	RecordHTTPRequest("GET", "/health", "200", 0.01)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
}
