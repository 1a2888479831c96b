package streams

import (
	"context"
	"encoding/binary"
	"errors"
	"hash/fnv"
	"sync"
)

var (
	ErrQueueClosed = errors.New("queue closed")
	ErrQueueFull   = errors.New("queue partition full")
)

// PartitionedQueue routes messages with the same key to the same buffered channel,
// so a single worker per partition sees them in publish order.
type PartitionedQueue[T any] struct {
	partitions []chan T

	mu     sync.RWMutex
	closed bool
}

func newPartitionedQueue[T any](numPartitions, buffer int) *PartitionedQueue[T] {
	channels := make([]chan T, numPartitions)
	for i := range channels {
		channels[i] = make(chan T, buffer)
	}
	return &PartitionedQueue[T]{partitions: channels}
}

const (
	defaultNumPartitions = 4
	defaultBuffer        = 64
)

func NewPartitionedQueue[T any]() *PartitionedQueue[T] {
	return newPartitionedQueue[T](defaultNumPartitions, defaultBuffer)
}

func (queue *PartitionedQueue[T]) PartitionCount() int { return len(queue.partitions) }

// Publish never blocks. A full partition fails with ErrQueueFull.
func (queue *PartitionedQueue[T]) Publish(ctx context.Context, partitionKey string, msg T) error {
	queue.mu.RLock()
	defer queue.mu.RUnlock()
	if queue.closed {
		return ErrQueueClosed
	}

	idx := partitionIndex(partitionKey, len(queue.partitions))
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case queue.partitions[idx] <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages. Buffered messages can still be drained.
func (queue *PartitionedQueue[T]) Close() {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if queue.closed {
		return
	}
	queue.closed = true
	for _, ch := range queue.partitions {
		close(ch)
	}
}

func partitionIndex(key string, n int) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	sum := hash.Sum(nil)
	v := binary.LittleEndian.Uint32(sum)
	return int(v % uint32(n))
}
