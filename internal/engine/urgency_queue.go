package engine

import (
	"container/heap"
	"strconv"
	"strings"

	"github.com/noah-isme/campus-funding-api/internal/models"
)

// requestSeq extracts the numeric suffix of a generated "R<n>" id. The
// second return is false for ids that do not follow the generated format.
func requestSeq(id string) (int, bool) {
	if !strings.HasPrefix(id, "R") {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

type urgencyItem struct {
	req *models.FundingRequest
	seq int
}

type urgencyHeap []urgencyItem

func (h urgencyHeap) Len() int { return len(h) }

func (h urgencyHeap) Less(i, j int) bool {
	if h[i].req.Urgency != h[j].req.Urgency {
		return h[i].req.Urgency > h[j].req.Urgency
	}
	if h[i].seq != h[j].seq {
		return h[i].seq < h[j].seq
	}
	return h[i].req.ID < h[j].req.ID
}

func (h urgencyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *urgencyHeap) Push(x interface{}) {
	*h = append(*h, x.(urgencyItem))
}

func (h *urgencyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// UrgencyQueue is a max-priority queue over pending requests: highest
// urgency first, ties broken by creation order (the numeric suffix of the
// id, so R2 is served before R10 at equal urgency). Popping does not touch
// request status; the caller decides the outcome.
type UrgencyQueue struct {
	items urgencyHeap
}

// NewUrgencyQueue returns an empty queue.
func NewUrgencyQueue() *UrgencyQueue {
	return &UrgencyQueue{items: urgencyHeap{}}
}

// Push inserts a request keyed by (urgency desc, creation order asc).
func (q *UrgencyQueue) Push(req *models.FundingRequest) {
	seq, _ := requestSeq(req.ID)
	heap.Push(&q.items, urgencyItem{req: req, seq: seq})
}

// Pop removes and returns the highest-priority request. The second return
// is false when the queue is empty.
func (q *UrgencyQueue) Pop() (*models.FundingRequest, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	item := heap.Pop(&q.items).(urgencyItem)
	return item.req, true
}

// Peek returns the highest-priority request without removing it.
func (q *UrgencyQueue) Peek() (*models.FundingRequest, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0].req, true
}

// Len returns the number of queued entries, stale ones included.
func (q *UrgencyQueue) Len() int {
	return len(q.items)
}
