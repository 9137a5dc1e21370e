package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-funding-api/internal/dto"
	"github.com/noah-isme/campus-funding-api/internal/engine"
	"github.com/noah-isme/campus-funding-api/internal/models"
	appErrors "github.com/noah-isme/campus-funding-api/pkg/errors"
)

type fundingEngine interface {
	RegisterUser(ctx context.Context, id, name string, role models.UserRole) (*models.User, error)
	SubmitRequest(ctx context.Context, studentID string, amount float64, urgency int) (*models.FundingRequest, error)
	ReviewNext(ctx context.Context, adminID string) (*models.FundingRequest, error)
	Decide(ctx context.Context, requestID string, approve bool) (*models.FundingRequest, error)
	Donate(ctx context.Context, donorID, requestID string, amount float64) (*models.FundingRequest, error)
	Overview() engine.Overview
	PendingByUrgency() []models.FundingRequest
	Users() []models.User
	Request(id string) (models.FundingRequest, error)
}

// FundingService fronts the engine with payload validation and operation
// metrics. All business rules stay in the engine; this layer only shapes
// input and observes outcomes.
type FundingService struct {
	engine    fundingEngine
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewFundingService creates an instance of FundingService.
func NewFundingService(eng fundingEngine, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *FundingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FundingService{engine: eng, validator: validate, metrics: metrics, logger: logger}
}

// Register adds a user with one of the three roles.
func (s *FundingService) Register(ctx context.Context, req dto.RegisterUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	user, err := s.engine.RegisterUser(ctx, req.ID, req.Name, models.UserRole(req.Role))
	s.observe("register_user", err)
	return user, err
}

// Submit files a funding request on behalf of a student.
func (s *FundingService) Submit(ctx context.Context, req dto.SubmitRequestPayload) (*models.FundingRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	fr, err := s.engine.SubmitRequest(ctx, req.StudentID, req.Amount, req.Urgency)
	s.observe("submit_request", err)
	return fr, err
}

// ReviewNext hands the admin the most urgent pending request.
func (s *FundingService) ReviewNext(ctx context.Context, req dto.ReviewRequest) (*models.FundingRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	fr, err := s.engine.ReviewNext(ctx, req.AdminID)
	s.observe("review_next", err)
	return fr, err
}

// Decide approves or rejects a submitted request.
func (s *FundingService) Decide(ctx context.Context, requestID string, req dto.DecisionRequest) (*models.FundingRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	fr, err := s.engine.Decide(ctx, requestID, *req.Approve)
	s.observe("decide", err)
	return fr, err
}

// Donate funds an approved request in full.
func (s *FundingService) Donate(ctx context.Context, req dto.DonationRequest) (*models.FundingRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid donation payload")
	}
	fr, err := s.engine.Donate(ctx, req.DonorID, req.RequestID, req.Amount)
	s.observe("donate", err)
	return fr, err
}

// Overview returns the display read model.
func (s *FundingService) Overview(ctx context.Context) engine.Overview {
	return s.engine.Overview()
}

// Pending lists submitted requests by urgency, highest first.
func (s *FundingService) Pending(ctx context.Context) []models.FundingRequest {
	return s.engine.PendingByUrgency()
}

// Users lists every registered user.
func (s *FundingService) Users(ctx context.Context) []models.User {
	return s.engine.Users()
}

// Request returns a single request record.
func (s *FundingService) Request(ctx context.Context, id string) (models.FundingRequest, error) {
	return s.engine.Request(id)
}

func (s *FundingService) observe(operation string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, err)
	}
	if err != nil {
		s.logger.Debug("operation rejected", zap.String("operation", operation), zap.Error(err))
	}
}
