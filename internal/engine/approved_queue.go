package engine

import "github.com/noah-isme/campus-funding-api/internal/models"

// ApprovedQueue holds approved requests awaiting funding in FIFO order.
type ApprovedQueue struct {
	items []*models.FundingRequest
}

// NewApprovedQueue returns an empty queue.
func NewApprovedQueue() *ApprovedQueue {
	return &ApprovedQueue{}
}

// Enqueue appends the request to the back.
func (q *ApprovedQueue) Enqueue(req *models.FundingRequest) {
	q.items = append(q.items, req)
}

// RemoveByID rebuilds the queue without the matching request, preserving
// the relative order of the remainder. O(n), acceptable because admission
// and funding are low-frequency human-driven events. Returns false when the
// id was not queued.
func (q *ApprovedQueue) RemoveByID(id string) bool {
	kept := make([]*models.FundingRequest, 0, len(q.items))
	removed := false
	for _, req := range q.items {
		if req.ID == id {
			removed = true
			continue
		}
		kept = append(kept, req)
	}
	q.items = kept
	return removed
}

// Snapshot returns the queued requests in queue order.
func (q *ApprovedQueue) Snapshot() []*models.FundingRequest {
	out := make([]*models.FundingRequest, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued requests.
func (q *ApprovedQueue) Len() int {
	return len(q.items)
}
