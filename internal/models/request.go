package models

// RequestStatus is the lifecycle state of a funding request.
type RequestStatus string

const (
	StatusSubmitted RequestStatus = "submitted"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusFunded    RequestStatus = "funded"
)

// Terminal reports whether no further transition is defined from the status.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusFunded
}

// FundingRequest is a student's request for funding. Status is the only
// mutable field; everything else is fixed at submission.
type FundingRequest struct {
	ID        string        `json:"id"`
	StudentID string        `json:"student_id"`
	Amount    float64       `json:"amount"`
	Urgency   int           `json:"urgency"`
	Status    RequestStatus `json:"status"`
}
