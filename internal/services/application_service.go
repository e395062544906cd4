package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type applicationService struct {
	repo              repositories.Repository
	db                *gorm.DB
	logger            *slog.Logger
	validator         *validator.Validator
	businessValidator *validator.BusinessValidator
	notifier          NotificationService
}

func NewApplicationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, notifier NotificationService) ApplicationService {
	return &applicationService{
		repo:              repo,
		db:                db,
		logger:            logger,
		validator:         v,
		businessValidator: validator.NewBusinessValidator(),
		notifier:          notifier,
	}
}

// ===== SUBMISSION =====

func (s *applicationService) Submit(ctx context.Context, req *SubmitApplicationRequest, userID string) (*ApplicationResponse, error) {
	s.logger.Info("Submitting instructor application", "user_id", userID)

	// Whitespace-only text must not pass the required checks.
	req.Bio = strings.TrimSpace(req.Bio)
	req.Expertise = strings.TrimSpace(req.Expertise)
	req.TeachingExperience = strings.TrimSpace(req.TeachingExperience)
	req.Motivation = strings.TrimSpace(req.Motivation)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// One application per user, ever. Rejected applicants do not get
	// another round.
	exists, err := s.repo.Application().ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if exists {
		return nil, ErrApplicationExists
	}

	application := &models.InstructorApplication{
		UserID:             userID,
		Bio:                req.Bio,
		Expertise:          req.Expertise,
		TeachingExperience: req.TeachingExperience,
		Motivation:         req.Motivation,
		PhoneNumber:        req.PhoneNumber,
		Status:             models.ApplicationPending,
		SubmittedAt:        time.Now(),
	}

	if err := s.repo.Application().Create(ctx, nil, application); err != nil {
		// Unique index on user_id backstops a concurrent double submit.
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrApplicationExists
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.Info("Instructor application submitted",
		"application_id", application.ID,
		"user_id", userID)

	if s.notifier != nil {
		s.notifier.ApplicationSubmitted(ctx, application, user)
	}

	return s.toResponse(application, user), nil
}

func (s *applicationService) GetMyApplication(ctx context.Context, userID string) (*ApplicationResponse, error) {
	application, err := s.repo.Application().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return s.toResponse(application, nil), nil
}

// ===== ADMIN REVIEW =====

func (s *applicationService) List(ctx context.Context, filters repositories.ApplicationFilters) (*ApplicationListResponse, error) {
	applications, total, err := s.repo.Application().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	stats, err := s.repo.Application().GetStats(ctx)
	if err != nil {
		s.logger.Warn("Failed to load application stats", "error", err)
		stats = nil
	}

	responses := make([]*ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, s.toResponse(application, &application.User))
	}

	return &ApplicationListResponse{
		Applications: responses,
		Total:        total,
		Stats:        stats,
		Limit:        filters.Limit,
		Offset:       filters.Offset,
	}, nil
}

func (s *applicationService) GetByID(ctx context.Context, applicationID uint) (*ApplicationResponse, error) {
	application, err := s.repo.Application().GetByID(ctx, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return s.toResponse(application, &application.User), nil
}

func (s *applicationService) SetUnderReview(ctx context.Context, applicationID uint, reviewerID string, req *ReviewApplicationRequest) (*ApplicationResponse, error) {
	application, err := s.getForReview(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if errs := s.businessValidator.ValidateApplicationTransition(application.Status, models.ApplicationUnderReview); len(errs) > 0 {
		if application.Status.IsTerminal() {
			return nil, ErrApplicationTerminal
		}
		return nil, errs
	}

	application.Status = models.ApplicationUnderReview
	application.ReviewedBy = &reviewerID
	if req != nil && req.AdminNotes != nil {
		application.AdminNotes = req.AdminNotes
	}

	if err := s.repo.Application().Update(ctx, nil, application); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	s.logger.Info("Application moved under review",
		"application_id", applicationID,
		"reviewer_id", reviewerID)

	return s.toResponse(application, &application.User), nil
}

func (s *applicationService) Approve(ctx context.Context, applicationID uint, reviewerID string) (*ApplicationResponse, error) {
	application, err := s.getForReview(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if errs := s.businessValidator.ValidateApplicationTransition(application.Status, models.ApplicationApproved); len(errs) > 0 {
		if application.Status.IsTerminal() {
			return nil, ErrApplicationTerminal
		}
		return nil, errs
	}

	now := time.Now()
	application.Status = models.ApplicationApproved
	application.ReviewedAt = &now
	application.ReviewedBy = &reviewerID

	// The status change and the role promotion land together.
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Application().Update(ctx, nil, application); err != nil {
			return err
		}
		return txRepo.User().UpdateRole(ctx, nil, application.UserID, models.RoleInstructor)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to approve application: %w", err)
	}

	s.logger.Info("Application approved",
		"application_id", applicationID,
		"user_id", application.UserID,
		"reviewer_id", reviewerID)

	if s.notifier != nil {
		applicant, err := s.repo.User().GetByID(ctx, application.UserID)
		if err != nil {
			applicant = &application.User
		}
		s.notifier.ApplicationApproved(ctx, application, applicant)
	}

	return s.toResponse(application, &application.User), nil
}

func (s *applicationService) Reject(ctx context.Context, applicationID uint, reviewerID string, req *RejectApplicationRequest) (*ApplicationResponse, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	application, err := s.getForReview(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if errs := s.businessValidator.ValidateApplicationTransition(application.Status, models.ApplicationRejected); len(errs) > 0 {
		if application.Status.IsTerminal() {
			return nil, ErrApplicationTerminal
		}
		return nil, errs
	}

	now := time.Now()
	application.Status = models.ApplicationRejected
	application.ReviewedAt = &now
	application.ReviewedBy = &reviewerID
	application.RejectionReason = &req.Reason
	if req.AdminNotes != nil {
		application.AdminNotes = req.AdminNotes
	}

	if err := s.repo.Application().Update(ctx, nil, application); err != nil {
		return nil, fmt.Errorf("failed to reject application: %w", err)
	}

	s.logger.Info("Application rejected",
		"application_id", applicationID,
		"user_id", application.UserID,
		"reviewer_id", reviewerID)

	if s.notifier != nil {
		s.notifier.ApplicationRejected(ctx, application, &application.User, req.Reason)
	}

	return s.toResponse(application, &application.User), nil
}

// ===== HELPERS =====

func (s *applicationService) getForReview(ctx context.Context, applicationID uint) (*models.InstructorApplication, error) {
	application, err := s.repo.Application().GetByID(ctx, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return application, nil
}

func (s *applicationService) toResponse(application *models.InstructorApplication, applicant *models.User) *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                 application.ID,
		UserID:             application.UserID,
		Bio:                application.Bio,
		Expertise:          application.Expertise,
		TeachingExperience: application.TeachingExperience,
		Motivation:         application.Motivation,
		PhoneNumber:        application.PhoneNumber,
		Status:             application.Status,
		SubmittedAt:        application.SubmittedAt,
		ReviewedAt:         application.ReviewedAt,
		ReviewedBy:         application.ReviewedBy,
		RejectionReason:    application.RejectionReason,
		AdminNotes:         application.AdminNotes,
	}

	if applicant != nil && applicant.ID != "" {
		resp.ApplicantName = applicant.DisplayName()
		resp.ApplicantEmail = applicant.Email
	}

	return resp
}
