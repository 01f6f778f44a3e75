package search

// queueItem references a hypothesis by index with its pruning priority.
type queueItem struct {
	index    int
	priority float32
}

// priorityQueue is a binary min-heap over queueItems: the top is the worst
// retained hypothesis, which makes it a histogram-pruning beam when pushed
// with pushBounded. It does NOT implement container/heap to avoid interface
// overhead.
type priorityQueue struct {
	items []queueItem
}

func newPriorityQueue(capacity int) *priorityQueue {
	return &priorityQueue{items: make([]queueItem, 0, capacity)}
}

func (pq *priorityQueue) reset() {
	pq.items = pq.items[:0]
}

func (pq *priorityQueue) len() int {
	return len(pq.items)
}

func (pq *priorityQueue) top() (queueItem, bool) {
	if len(pq.items) == 0 {
		return queueItem{}, false
	}
	return pq.items[0], true
}

func (pq *priorityQueue) push(item queueItem) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// pushBounded inserts an item into a heap holding at most capacity items.
// If the heap is full and the new item is not better than the top, it is
// skipped; otherwise the top is replaced.
func (pq *priorityQueue) pushBounded(item queueItem, capacity int) {
	if len(pq.items) < capacity {
		pq.push(item)
		return
	}
	if item.priority > pq.items[0].priority {
		pq.items[0] = item
		pq.siftDown(0)
	}
}

func (pq *priorityQueue) pop() (queueItem, bool) {
	n := len(pq.items)
	if n == 0 {
		return queueItem{}, false
	}

	item := pq.items[0]
	pq.items[0] = pq.items[n-1]
	pq.items = pq.items[:n-1]

	if len(pq.items) > 0 {
		pq.siftDown(0)
	}
	return item, true
}

// less orders by priority, breaking ties so that later indexes are evicted
// first.
func (pq *priorityQueue) less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.index > b.index
}

func (pq *priorityQueue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !pq.less(i, parent) {
			break
		}
		pq.items[i], pq.items[parent] = pq.items[parent], pq.items[i]
		i = parent
	}
}

func (pq *priorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && pq.less(right, left) {
			child = right
		}
		if !pq.less(child, i) {
			break
		}
		pq.items[i], pq.items[child] = pq.items[child], pq.items[i]
		i = child
	}
}
