package collections

// queueNode represents a node in the queue's linked list
type queueNode[T any] struct {
	value T
	next  *queueNode[T]
}

// Queue is a FIFO queue over linked nodes.
// Push and pop are O(1); the zero value is an empty queue ready for use.
type Queue[T any] struct {
	head *queueNode[T]
	tail *queueNode[T]
	size int
}

// PushBack adds a new node with the given value to the end of the queue
func (q *Queue[T]) PushBack(value T) {
	newNode := &queueNode[T]{value: value}
	q.size++
	if q.tail == nil {
		q.head = newNode
		q.tail = newNode
		return
	}
	q.tail.next = newNode
	q.tail = newNode
}

// PopFront removes and returns the value at the head of the queue
func (q *Queue[T]) PopFront() (T, bool) {
	if q.head == nil {
		return getZero[T](), false
	}
	q.size--
	node := q.head
	q.head = node.next
	if q.head == nil {
		q.tail = nil
	}
	node.next = nil
	return node.value, true
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == nil
}

func (q *Queue[T]) Len() int {
	return q.size
}

// Clear discards all queued values
func (q *Queue[T]) Clear() {
	q.head = nil
	q.tail = nil
	q.size = 0
}

func getZero[T any]() T {
	var result T
	return result
}
