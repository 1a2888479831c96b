package streams

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionIndex_Stable(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"server", "bebok", "finger", ""} {
		idx := partitionIndex(key, 4)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 4)
		assert.Equal(t, idx, partitionIndex(key, 4))
	}
}

func TestPartitionedQueue_SameKeySamePartition(t *testing.T) {
	t.Parallel()

	queue := newPartitionedQueue[int](4, 8)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, queue.Publish(ctx, "server", i))
	}

	ch := queue.partitions[partitionIndex("server", 4)]
	assert.Equal(t, 0, <-ch)
	assert.Equal(t, 1, <-ch)
	assert.Equal(t, 2, <-ch)
}

func TestPartitionedQueue_PublishFullDoesNotBlock(t *testing.T) {
	t.Parallel()

	queue := newPartitionedQueue[int](1, 1)
	require.NoError(t, queue.Publish(context.Background(), "k", 1))

	done := make(chan error, 1)
	go func() { done <- queue.Publish(context.Background(), "k", 2) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full partition")
	}
}

func TestPartitionedQueue_PublishCancelledContext(t *testing.T) {
	t.Parallel()

	queue := newPartitionedQueue[int](1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, queue.Publish(ctx, "k", 1), context.Canceled)
}

func TestPartitionedQueue_Closed(t *testing.T) {
	t.Parallel()

	queue := newPartitionedQueue[int](2, 1)
	queue.Close()
	queue.Close()

	assert.ErrorIs(t, queue.Publish(context.Background(), "k", 1), ErrQueueClosed)
}
