package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-funding-api/internal/dto"
	"github.com/noah-isme/campus-funding-api/internal/engine"
	"github.com/noah-isme/campus-funding-api/internal/models"
	appErrors "github.com/noah-isme/campus-funding-api/pkg/errors"
	"github.com/noah-isme/campus-funding-api/pkg/response"
)

type fundingService interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*models.User, error)
	Submit(ctx context.Context, req dto.SubmitRequestPayload) (*models.FundingRequest, error)
	ReviewNext(ctx context.Context, req dto.ReviewRequest) (*models.FundingRequest, error)
	Decide(ctx context.Context, requestID string, req dto.DecisionRequest) (*models.FundingRequest, error)
	Donate(ctx context.Context, req dto.DonationRequest) (*models.FundingRequest, error)
	Overview(ctx context.Context) engine.Overview
	Pending(ctx context.Context) []models.FundingRequest
	Users(ctx context.Context) []models.User
	Request(ctx context.Context, id string) (models.FundingRequest, error)
}

// FundingHandler exposes the funding workflow endpoints.
type FundingHandler struct {
	service fundingService
}

// NewFundingHandler creates a new funding handler.
func NewFundingHandler(svc fundingService) *FundingHandler {
	return &FundingHandler{service: svc}
}

// Register godoc
// @Summary Register user
// @Description Register a student, admin, or donor
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.RegisterUserRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users [post]
func (h *FundingHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Users godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *FundingHandler) Users(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Users(c.Request.Context()))
}

// Submit godoc
// @Summary Submit funding request
// @Description File a funding request on behalf of a student
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRequestPayload true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /requests [post]
func (h *FundingHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	fr, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, fr)
}

// Pending godoc
// @Summary List pending requests
// @Description Submitted requests ordered by urgency, highest first
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/pending [get]
func (h *FundingHandler) Pending(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Pending(c.Request.Context()))
}

// GetRequest godoc
// @Summary Get request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *FundingHandler) GetRequest(c *gin.Context) {
	fr, err := h.service.Request(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fr)
}

// ReviewNext godoc
// @Summary Review next request
// @Description Pop the most urgent pending request for an admin decision
// @Tags Reviews
// @Accept json
// @Produce json
// @Param payload body dto.ReviewRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reviews/next [post]
func (h *FundingHandler) ReviewNext(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	fr, err := h.service.ReviewNext(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, fr)
}

// Decide godoc
// @Summary Decide request
// @Description Approve or reject a submitted request
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/decision [post]
func (h *FundingHandler) Decide(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	fr, err := h.service.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, fr)
}

// Donate godoc
// @Summary Donate to request
// @Description Fund an approved request in full; partial donations are rejected
// @Tags Donations
// @Accept json
// @Produce json
// @Param payload body dto.DonationRequest true "Donation payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /donations [post]
func (h *FundingHandler) Donate(c *gin.Context) {
	var req dto.DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	fr, err := h.service.Donate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, fr)
}

// Overview godoc
// @Summary Current state
// @Description Users, students, approved queue, amount-sorted requests, and the live review top
// @Tags State
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /state [get]
func (h *FundingHandler) Overview(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Overview(c.Request.Context()))
}
