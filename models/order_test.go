package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Forward(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusPaid))
	assert.True(t, CanTransition(StatusPaid, StatusPreparing))
	assert.True(t, CanTransition(StatusPreparing, StatusHanded))
	assert.True(t, CanTransition(StatusHanded, StatusShipped))
	assert.True(t, CanTransition(StatusHanded, StatusDelivered))
	assert.True(t, CanTransition(StatusHanded, StatusCompleted))
	assert.True(t, CanTransition(StatusShipped, StatusDelivered))
	assert.True(t, CanTransition(StatusDelivered, StatusCompleted))

	// Skipping intermediate stages is still forward
	assert.True(t, CanTransition(StatusPending, StatusHanded))
}

func TestCanTransition_Backward(t *testing.T) {
	assert.False(t, CanTransition(StatusPaid, StatusPending))
	assert.False(t, CanTransition(StatusHanded, StatusPreparing))
	assert.False(t, CanTransition(StatusCompleted, StatusShipped))
	assert.False(t, CanTransition(StatusDelivered, StatusHanded))
}

func TestCanTransition_SameStatus(t *testing.T) {
	assert.False(t, CanTransition(StatusPaid, StatusPaid))
	assert.False(t, CanTransition(StatusCancelled, StatusCancelled))
}

func TestCanTransition_Cancellation(t *testing.T) {
	// Cancellable only before handoff
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusPaid, StatusCancelled))
	assert.True(t, CanTransition(StatusPreparing, StatusCancelled))

	assert.False(t, CanTransition(StatusHanded, StatusCancelled))
	assert.False(t, CanTransition(StatusShipped, StatusCancelled))
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
}

func TestCanTransition_CancelledIsTerminal(t *testing.T) {
	for _, to := range []string{StatusPending, StatusPaid, StatusPreparing, StatusHanded, StatusShipped, StatusDelivered, StatusCompleted} {
		assert.False(t, CanTransition(StatusCancelled, to), "cancelled -> %s should be rejected", to)
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("unknown", StatusPaid))
	assert.False(t, CanTransition(StatusPending, "unknown"))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusPaid, StatusPreparing, StatusHanded, StatusShipped, StatusDelivered, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("refunded"))
	assert.False(t, ValidStatus(""))
}

func TestOTPUsable(t *testing.T) {
	now := time.Now()

	fresh := OTP{ExpiresAt: now.Add(5 * time.Minute)}
	assert.True(t, fresh.Usable(now))

	used := OTP{ExpiresAt: now.Add(5 * time.Minute), IsUsed: true}
	assert.False(t, used.Usable(now))

	expired := OTP{ExpiresAt: now.Add(-time.Second)}
	assert.False(t, expired.Usable(now))
}

func TestOTPUsable_ConsumedOnce(t *testing.T) {
	now := time.Now()
	otp := OTP{ExpiresAt: now.Add(OTPLifetime)}

	assert.True(t, otp.Usable(now))
	otp.IsUsed = true
	assert.False(t, otp.Usable(now), "a consumed code must not verify a second time")
}
