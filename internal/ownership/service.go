package ownership

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
)

type affiliationRepository interface {
	FindOwned(ctx context.Context, userID uuid.UUID) ([]models.Institution, error)
}

// PrimaryAffiliation carries the first owned record in store order plus the
// total count. A nil Institution with TotalAffiliations zero is the valid
// "no institution yet" state, not an error.
type PrimaryAffiliation struct {
	Institution       *institutions.InstitutionDTO `json:"institution"`
	TotalAffiliations int                          `json:"total_affiliations"`
}

// Service resolves user-to-institution affiliations.
type Service interface {
	Primary(ctx context.Context, userID uuid.UUID) (*PrimaryAffiliation, error)
	Mine(ctx context.Context, userID uuid.UUID) ([]*institutions.InstitutionDTO, error)
	Owns(ctx context.Context, userID, institutionID uuid.UUID) (bool, error)
}

type service struct {
	repo affiliationRepository
}

// NewService builds an ownership resolver over the provided repository.
func NewService(repo affiliationRepository) (Service, error) {
	if repo == nil {
		return nil, errors.New("affiliation repository required")
	}
	return &service{repo: repo}, nil
}

// Primary returns the first affiliated institution and how many exist in
// total, so multiplicity is surfaced rather than silently collapsed.
func (s *service) Primary(ctx context.Context, userID uuid.UUID) (*PrimaryAffiliation, error) {
	owned, err := s.repo.FindOwned(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve affiliations")
	}
	result := &PrimaryAffiliation{TotalAffiliations: len(owned)}
	if len(owned) > 0 {
		result.Institution = institutions.FromModel(&owned[0])
	}
	return result, nil
}

// Mine returns the full affiliation list in creation order.
func (s *service) Mine(ctx context.Context, userID uuid.UUID) ([]*institutions.InstitutionDTO, error) {
	owned, err := s.repo.FindOwned(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve affiliations")
	}
	dtos := make([]*institutions.InstitutionDTO, 0, len(owned))
	for i := range owned {
		dtos = append(dtos, institutions.FromModel(&owned[i]))
	}
	return dtos, nil
}

// Owns reports whether the user is affiliated with the given institution.
func (s *service) Owns(ctx context.Context, userID, institutionID uuid.UUID) (bool, error) {
	owned, err := s.repo.FindOwned(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve affiliations")
	}
	for i := range owned {
		if owned[i].ID == institutionID {
			return true, nil
		}
	}
	return false, nil
}
