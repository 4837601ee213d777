package graph

import (
	"strconv"

	"github.com/google/uuid"
)

// IDAllocator issues blank node identifiers for objects without "@id".
// Returned ids must be unique within one build.
type IDAllocator interface {
	NextID() string
}

// UUIDAllocator issues "_:<uuid>" identifiers.
type UUIDAllocator struct{}

// NextID returns a random blank node id.
func (UUIDAllocator) NextID() string {
	return "_:" + uuid.NewString()
}

// SequenceAllocator issues "_:<prefix>0", "_:<prefix>1", ... in order.
// It is not safe for concurrent use.
type SequenceAllocator struct {
	prefix string
	next   int
}

// NewSequenceAllocator creates a SequenceAllocator. An empty prefix
// defaults to "b".
func NewSequenceAllocator(prefix string) *SequenceAllocator {
	if prefix == "" {
		prefix = "b"
	}
	return &SequenceAllocator{prefix: prefix}
}

// NextID returns the next id in the sequence.
func (s *SequenceAllocator) NextID() string {
	id := "_:" + s.prefix + strconv.Itoa(s.next)
	s.next++
	return id
}
