package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sher-V/play-today-admin/internal/database"
	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/models"

	"github.com/rs/zerolog"
)

// ClientService is the club client directory. Bookings reference
// clients for display and linking only; directory failures never block
// a booking.
type ClientService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewClientService(repo domain.Repository, logger *zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

func (s *ClientService) GetClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.repo.GetClients(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return clients, nil
}

// FindOrCreateByName resolves a client by exact name, creating the
// directory entry on first sight.
func (s *ClientService) FindOrCreateByName(ctx context.Context, name string) (*models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrValidation)
	}

	client, err := s.repo.GetClientByName(ctx, name)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, mapRepoErr(err)
	}

	client = &models.Client{Name: name}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, mapRepoErr(err)
	}
	s.logger.Info().Int64("client_id", client.ID).Str("name", name).Msg("client created")
	return client, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, client *models.Client) error {
	if client.Name == "" {
		return fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if err := s.repo.UpdateClient(ctx, client); err != nil {
		return mapRepoErr(err)
	}
	return nil
}
