package services

import (
	"context"

	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/repositories"
	"coa-service/pkg/types"
)

type AuditServiceInterface interface {
	GetEntries(ctx context.Context, filter types.Filter) ([]dto.AuditEntryDTO, uint64, error)
	GetChanges(ctx context.Context, sessionID string) ([]dto.ChangeRecordDTO, error)
}

type AuditService struct {
	auditRepo  repositories.AuditRepositoryInterface
	changeRepo repositories.ChangeRepositoryInterface
	logger     *zap.Logger
}

func NewAuditService(
	auditRepo repositories.AuditRepositoryInterface,
	changeRepo repositories.ChangeRepositoryInterface,
	logger *zap.Logger,
) AuditServiceInterface {
	return &AuditService{auditRepo: auditRepo, changeRepo: changeRepo, logger: logger}
}

func (s *AuditService) GetEntries(ctx context.Context, filter types.Filter) ([]dto.AuditEntryDTO, uint64, error) {
	entries, total, err := s.auditRepo.GetEntries(ctx, filter)
	if err != nil {
		s.logger.Error("failed to fetch audit entries", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.AuditEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.AuditEntryToDTO(entry))
	}
	return out, total, nil
}

func (s *AuditService) GetChanges(ctx context.Context, sessionID string) ([]dto.ChangeRecordDTO, error) {
	records, err := s.changeRepo.GetBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to fetch session changes",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, err
	}

	out := make([]dto.ChangeRecordDTO, 0, len(records))
	for _, record := range records {
		out = append(out, dto.ChangeRecordToDTO(record))
	}
	return out, nil
}
