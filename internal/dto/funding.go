package dto

// RegisterUserRequest is the payload for registering a participant.
type RegisterUserRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,oneof=student admin donor"`
}

// SubmitRequestPayload is the payload for submitting a funding request.
type SubmitRequestPayload struct {
	StudentID string  `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Urgency   int     `json:"urgency"`
}

// ReviewRequest identifies the admin pulling the next request for review.
type ReviewRequest struct {
	AdminID string `json:"admin_id" validate:"required"`
}

// DecisionRequest records an approve/reject decision. Approve is a pointer
// so a missing field is rejected instead of defaulting to reject.
type DecisionRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

// DonationRequest is the payload for funding an approved request.
type DonationRequest struct {
	DonorID   string  `json:"donor_id" validate:"required"`
	RequestID string  `json:"request_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gte=0"`
}
