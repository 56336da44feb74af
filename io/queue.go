// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"sync"
)

const (
	// QUEUE_DEFAULT_CAPACITY is the default capacity in characters of a new queue.
	QUEUE_DEFAULT_CAPACITY = 256
)

// Queue implements a circular buffer of characters.
// It operates as a FIFO queue with a fixed capacity and separate read/write
// positions, and is safe for one producer and one consumer goroutine.
type Queue struct {
	Capacity int // Capacity in characters.

	mutex      sync.Mutex
	readIndex  int
	writeIndex int
	size       int
	data       []uint8
}

// Rewind resets the queue to empty, resetting indices and
// reinitializing the data buffer.
func (queue *Queue) Rewind() {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	queue.rewind()
}

func (queue *Queue) rewind() {
	if queue.Capacity <= 0 {
		queue.Capacity = QUEUE_DEFAULT_CAPACITY
	}
	queue.readIndex = 0
	queue.writeIndex = 0
	queue.size = 0
	queue.data = make([]uint8, queue.Capacity)
}

// Len returns the number of pending characters.
func (queue *Queue) Len() int {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	return queue.size
}

// Push appends a character at the current write position.
// Returns ErrQueueFull if the buffer has reached capacity.
func (queue *Queue) Push(value uint8) (err error) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	if queue.data == nil {
		queue.rewind()
	}

	if queue.size >= queue.Capacity {
		err = ErrQueueFull
		return
	}

	queue.data[queue.writeIndex] = value

	queue.writeIndex++
	if queue.writeIndex == queue.Capacity {
		queue.writeIndex = 0
	}
	queue.size++

	return
}

// Pop removes the oldest character. ok is false if the queue is empty.
// The buffer wraps around at the capacity boundary.
func (queue *Queue) Pop() (value uint8, ok bool) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	if queue.size == 0 {
		return
	}

	value = queue.data[queue.readIndex]
	queue.readIndex++
	if queue.readIndex == queue.Capacity {
		queue.readIndex = 0
	}
	queue.size--
	ok = true

	return
}
