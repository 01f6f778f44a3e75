package search

import "sync"

const (
	// defaultQueueCapacity is the initial capacity of the pruning heap.
	defaultQueueCapacity = 128
	// maxRetainedCapacity caps the buffers kept in the pool.
	maxRetainedCapacity = 1 << 16
)

// scratch holds reusable buffers of a single Decode call.
type scratch struct {
	queue *priorityQueue
	keep  []int
	key   []byte
}

var scratchPool = sync.Pool{
	New: func() any {
		return &scratch{
			queue: newPriorityQueue(defaultQueueCapacity),
			keep:  make([]int, 0, defaultQueueCapacity),
			key:   make([]byte, 0, 64),
		}
	},
}

func getScratch() *scratch {
	sc := scratchPool.Get().(*scratch)
	sc.reset()
	return sc
}

func putScratch(sc *scratch) {
	if cap(sc.queue.items) > maxRetainedCapacity || cap(sc.keep) > maxRetainedCapacity {
		return
	}
	scratchPool.Put(sc)
}

func (sc *scratch) reset() {
	sc.queue.reset()
	sc.keep = sc.keep[:0]
	sc.key = sc.key[:0]
}
