package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/entities"
	"coa-service/internal/integrations/keboola"
	"coa-service/internal/repositories"
)

const subunitCacheKey = "coa:reference:subunits"

type SubunitServiceInterface interface {
	GetSubunits(ctx context.Context, businessUnit string) ([]dto.BusinessSubunitDTO, error)
	SubunitsOf(ctx context.Context, businessUnit string) ([]entities.BusinessSubunit, error)
	Refresh(ctx context.Context) error
}

type SubunitService struct {
	storage        keboola.StorageClient
	cache          repositories.CacheRepositoryInterface
	subunitTableID string
	cacheTTL       time.Duration
	logger         *zap.Logger
}

func NewSubunitService(
	storage keboola.StorageClient,
	cache repositories.CacheRepositoryInterface,
	subunitTableID string,
	cacheTTL time.Duration,
	logger *zap.Logger,
) SubunitServiceInterface {
	return &SubunitService{
		storage:        storage,
		cache:          cache,
		subunitTableID: subunitTableID,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

func (s *SubunitService) GetSubunits(ctx context.Context, businessUnit string) ([]dto.BusinessSubunitDTO, error) {
	subunits, err := s.SubunitsOf(ctx, businessUnit)
	if err != nil {
		return nil, err
	}
	return dto.SubunitsToDTO(subunits), nil
}

// SubunitsOf returns the subunits of one business unit, or all subunits when
// businessUnit is empty. The full reference table is cached for a short TTL.
func (s *SubunitService) SubunitsOf(ctx context.Context, businessUnit string) ([]entities.BusinessSubunit, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if businessUnit == "" {
		return all, nil
	}

	scoped := make([]entities.BusinessSubunit, 0)
	for _, su := range all {
		if su.BusinessUnit == businessUnit {
			scoped = append(scoped, su)
		}
	}
	return scoped, nil
}

// Refresh drops the cached reference table so the next read hits the platform.
func (s *SubunitService) Refresh(ctx context.Context) error {
	return s.cache.Del(ctx, subunitCacheKey)
}

func (s *SubunitService) load(ctx context.Context) ([]entities.BusinessSubunit, error) {
	if cached, err := s.cache.Get(ctx, subunitCacheKey); err == nil && cached != "" {
		var subunits []entities.BusinessSubunit
		if err := json.Unmarshal([]byte(cached), &subunits); err == nil {
			return subunits, nil
		}
	}

	records, err := s.storage.ReadTable(ctx, s.subunitTableID)
	if err != nil {
		return nil, err
	}

	subunits := make([]entities.BusinessSubunit, 0, len(records))
	for _, rec := range records {
		su := entities.BusinessSubunit{
			PK:           strings.TrimSpace(rec["PK_BUSINESS_SUBUNIT"]),
			BusinessUnit: strings.TrimSpace(rec["FK_BUSINESS_UNIT"]),
			Name:         strings.TrimSpace(rec["NAME_BUSINESS_SUBUNIT"]),
		}
		if su.PK == "" {
			continue
		}
		subunits = append(subunits, su)
	}
	sort.Slice(subunits, func(i, j int) bool { return subunits[i].PK < subunits[j].PK })

	if payload, err := json.Marshal(subunits); err == nil {
		if err := s.cache.Set(ctx, subunitCacheKey, payload, s.cacheTTL); err != nil {
			s.logger.Warn("caching subunits failed", zap.Error(err))
		}
	}

	s.logger.Debug("subunits loaded",
		zap.String("table_id", s.subunitTableID),
		zap.Int("rows", len(subunits)),
	)
	return subunits, nil
}
