package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerCompleteUnblocksRegisteredRecord(t *testing.T) {
	c := &Consumer{pending: make(map[string]chan error)}

	done := c.registerPending("rec-1")
	defer c.unregisterPending("rec-1")

	go c.Complete("rec-1", nil)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completion signal")
	}
}

func TestConsumerCompletePropagatesPublishError(t *testing.T) {
	c := &Consumer{pending: make(map[string]chan error)}

	done := c.registerPending("rec-2")
	defer c.unregisterPending("rec-2")

	publishErr := errFake{"publish failed"}
	go c.Complete("rec-2", publishErr)

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, publishErr, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completion signal")
	}
}

func TestConsumerCompleteOnUnknownRecordIsANoop(t *testing.T) {
	c := &Consumer{pending: make(map[string]chan error)}
	assert.NotPanics(t, func() { c.Complete("never-registered", nil) })
}

type errFake struct{ msg string }

func (e errFake) Error() string { return e.msg }
