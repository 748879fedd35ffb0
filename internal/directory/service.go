package directory

import (
	"context"
	"errors"

	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
)

type institutionLister interface {
	ListAll(ctx context.Context) ([]models.Institution, error)
}

// Listing is the directory response: the filtered records, the featured
// subset, and the dependent city options for the selected state.
type Listing struct {
	Results     []*institutions.InstitutionDTO `json:"results"`
	Featured    []*institutions.InstitutionDTO `json:"featured"`
	CityOptions []string                       `json:"city_options"`
}

// Service serves the public browsing view.
type Service interface {
	Browse(ctx context.Context, criteria Criteria) (*Listing, error)
}

type service struct {
	repo institutionLister
}

// NewService builds the directory service over the institutions repository.
func NewService(repo institutionLister) (Service, error) {
	if repo == nil {
		return nil, errors.New("institution repository required")
	}
	return &service{repo: repo}, nil
}

// Browse loads the full record set and filters it in memory.
func (s *service) Browse(ctx context.Context, criteria Criteria) (*Listing, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list institutions")
	}

	filtered := Filter(records, criteria)
	featured := Featured(filtered)

	return &Listing{
		Results:     publicViews(filtered),
		Featured:    publicViews(featured),
		CityOptions: CityOptions(records, criteria),
	}, nil
}

func publicViews(records []models.Institution) []*institutions.InstitutionDTO {
	views := make([]*institutions.InstitutionDTO, 0, len(records))
	for i := range records {
		views = append(views, institutions.FromModel(&records[i]).PublicView())
	}
	return views
}
