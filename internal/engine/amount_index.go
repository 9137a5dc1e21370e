package engine

import "github.com/noah-isme/campus-funding-api/internal/models"

type amountNode struct {
	req   *models.FundingRequest
	left  *amountNode
	right *amountNode
}

// AmountIndex is an append-only binary search tree keyed by requested
// amount. Equal amounts are placed in the right subtree, so the in-order
// traversal keeps arrival order for ties. Entries are never removed: funded
// and rejected requests stay visible in amount-sorted views for the life of
// the process.
type AmountIndex struct {
	root *amountNode
	size int
}

// NewAmountIndex returns an empty index.
func NewAmountIndex() *AmountIndex {
	return &AmountIndex{}
}

// Insert places the request by amount. Worst case O(n) on a degenerate
// tree, which is fine at the human-driven request rates this serves.
func (ix *AmountIndex) Insert(req *models.FundingRequest) {
	node := &amountNode{req: req}
	ix.size++

	if ix.root == nil {
		ix.root = node
		return
	}

	cur := ix.root
	for {
		if req.Amount < cur.req.Amount {
			if cur.left == nil {
				cur.left = node
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = node
				return
			}
			cur = cur.right
		}
	}
}

// InOrder returns every indexed request ascending by amount, ties in
// arrival order. The slice is rebuilt on each call from current contents.
func (ix *AmountIndex) InOrder() []*models.FundingRequest {
	out := make([]*models.FundingRequest, 0, ix.size)
	stack := make([]*amountNode, 0, 16)

	cur := ix.root
	for cur != nil || len(stack) > 0 {
		for cur != nil {
			stack = append(stack, cur)
			cur = cur.left
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur.req)
		cur = cur.right
	}

	return out
}

// Len returns the number of indexed requests.
func (ix *AmountIndex) Len() int {
	return ix.size
}
