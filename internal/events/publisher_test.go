package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoopPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewNoopPublisher(zap.New(core))

	err := p.Publish(context.Background(), BookingApproved, "42", BookingDecidedEvent{BookingID: 42, Status: "APPROVED"})
	require.NoError(t, err)

	entries := logs.FilterMessage("event publishing disabled").All()
	require.Len(t, entries, 1)
	assert.Equal(t, BookingApproved, entries[0].ContextMap()["event_type"])
	assert.Equal(t, "42", entries[0].ContextMap()["key"])
}

func TestPublisherImplementations(t *testing.T) {
	var _ Publisher = (*KafkaPublisher)(nil)
	var _ Publisher = (*NoopPublisher)(nil)
}
