package service

import (
	"context"
	"fmt"

	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/models"

	"github.com/rs/zerolog"
)

// CourtService manages the rentable courts and their display order.
type CourtService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewCourtService(repo domain.Repository, logger *zerolog.Logger) *CourtService {
	return &CourtService{repo: repo, logger: logger}
}

func (s *CourtService) GetCourts(ctx context.Context) ([]models.Court, error) {
	courts, err := s.repo.GetCourts(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return courts, nil
}

func (s *CourtService) GetCourtByID(ctx context.Context, id int64) (*models.Court, error) {
	court, err := s.repo.GetCourtByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return court, nil
}

func (s *CourtService) GetCourtByName(ctx context.Context, name string) (*models.Court, error) {
	court, err := s.repo.GetCourtByName(ctx, name)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return court, nil
}

func (s *CourtService) CreateCourt(ctx context.Context, court *models.Court) error {
	if court.Name == "" {
		return fmt.Errorf("%w: court name is required", ErrValidation)
	}
	if err := s.repo.CreateCourt(ctx, court); err != nil {
		return mapRepoErr(err)
	}
	s.logger.Info().Int64("court_id", court.ID).Str("name", court.Name).Msg("court created")
	return nil
}

func (s *CourtService) ReorderCourt(ctx context.Context, id int64, newOrder int64) error {
	if err := s.repo.ReorderCourt(ctx, id, newOrder); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

// SeedCourts creates the configured courts that do not exist yet.
// Courts already present by name are left untouched.
func (s *CourtService) SeedCourts(ctx context.Context, courts []models.Court) error {
	for i := range courts {
		c := courts[i]
		if _, err := s.repo.GetCourtByName(ctx, c.Name); err == nil {
			continue
		}
		if err := s.CreateCourt(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed court %q: %w", c.Name, err)
		}
	}
	return nil
}
