package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quotely/internal/domain"
	"quotely/internal/port"
)

// ClientInput is the DTO for creating or replacing a client.
type ClientInput struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin" binding:"omitempty,gstin"`
}

// ClientService defines the client management contract.
type ClientService interface {
	Create(ctx context.Context, input ClientInput) (*domain.Client, error)
	GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Client, int, error)
	Update(ctx context.Context, clientID uuid.UUID, input ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, clientID uuid.UUID) error
}

type clientService struct {
	repo port.ClientRepository
}

// NewClientService creates a new ClientService implementation.
func NewClientService(repo port.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, input ClientInput) (*domain.Client, error) {
	client := &domain.Client{}
	if err := applyClientInput(client, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("clientService.Create: %w", err)
	}
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	return s.repo.GetByID(ctx, clientID)
}

func (s *clientService) List(ctx context.Context, search string, offset, limit int) ([]domain.Client, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), offset, limit)
}

func (s *clientService) Update(ctx context.Context, clientID uuid.UUID, input ClientInput) (*domain.Client, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := applyClientInput(client, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, clientID uuid.UUID) error {
	return s.repo.Delete(ctx, clientID)
}

func applyClientInput(client *domain.Client, input ClientInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: client name is required", domain.ErrInvalidInput)
	}
	client.Name = name
	client.Email = strings.TrimSpace(input.Email)
	client.Phone = strings.TrimSpace(input.Phone)
	client.Address = strings.TrimSpace(input.Address)
	client.GSTIN = strings.ToUpper(strings.TrimSpace(input.GSTIN))
	return nil
}
