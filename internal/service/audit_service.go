package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/admin-console/internal/domain"
	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/repository"
)

// AuditService records console events and serves the audit page.
type AuditService struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

// NewAuditService builds the service over repo.
func NewAuditService(repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record logs the event and stores it. Store failures are logged and returned
// so the caller can count them; they never reach a page.
func (s *AuditService) Record(ctx context.Context, event events.Event) error {
	s.logger.Info("console event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("actor", event.Actor.Email),
		zap.String("role", event.Actor.Role),
		zap.String("target_type", event.TargetType),
		zap.String("target_id", event.TargetID),
		zap.Any("payload", event.Payload))

	entry := event.AuditEntry()
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Warn("failed to persist audit entry", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}

// List returns one page of the trail, newest first. page is 1-based.
func (s *AuditService) List(ctx context.Context, filter repository.AuditFilter, page, pageSize int) (*domain.Page[domain.AuditEntry], error) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &domain.Page[domain.AuditEntry]{Items: entries, Page: page, PageSize: pageSize, Total: total}, nil
}
