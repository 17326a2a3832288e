package testfixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	seq := NewSequence("token")
	assert.Empty(t, seq.Last())

	next := seq.Func()
	assert.Equal(t, "token-1", next())
	assert.Equal(t, "token-2", next())
	assert.Equal(t, "token-2", seq.Last())
	assert.Equal(t, []string{"token-1", "token-2"}, seq.Issued())

	assert.Equal(t, "id-1", NewSequence("").Next())

	var missing *Sequence
	assert.Equal(t, "", missing.Func()())
}

func TestHarnessSharesOneSequenceAcrossRepositories(t *testing.T) {
	ctx := context.Background()
	h := NewHarness(t)

	booking := h.Bookings.Create(ctx, NewBookingInput())
	assert.Equal(t, h.IDs.Last(), booking.ID)

	facility := h.Facilities.Create(ctx, NewFacilityInput())
	assert.Equal(t, h.IDs.Last(), facility.ID)

	require.Len(t, h.IDs.Issued(), 2)
	assert.Equal(t, []string{booking.ID, facility.ID}, h.IDs.Issued())
}
