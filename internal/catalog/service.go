package catalog

import (
	"context"
	"fmt"

	"github.com/glintwash/glintwash-client/pkg/types"
)

type catalogAPI interface {
	Products(ctx context.Context) ([]types.ProductDTO, error)
	Branches(ctx context.Context) ([]types.BranchDTO, error)
	Packages(ctx context.Context) ([]types.PackageDTO, error)
	Gallery(ctx context.Context) ([]types.GalleryImageDTO, error)
}

// Service fetches read-only reference data. Nothing here mutates; filtering
// by is_active happens at presentation time, mirroring the web front end.
type Service struct {
	api catalogAPI
}

func NewService(api catalogAPI) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api client is required")
	}
	return &Service{api: api}, nil
}

// Products returns the full catalog, inactive entries included; checkout
// needs those to tell "gone" apart from "disabled".
func (s *Service) Products(ctx context.Context) ([]types.Product, error) {
	rows, err := s.api.Products(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.ToDomain())
	}
	return products, nil
}

// ActiveProducts filters the catalog down to what the shop pages display.
func (s *Service) ActiveProducts(ctx context.Context) ([]types.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	active := products[:0]
	for _, product := range products {
		if product.IsActive {
			active = append(active, product)
		}
	}
	return active, nil
}

func (s *Service) ActiveBranches(ctx context.Context) ([]types.Branch, error) {
	rows, err := s.api.Branches(ctx)
	if err != nil {
		return nil, err
	}
	branches := make([]types.Branch, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		branches = append(branches, row.ToDomain())
	}
	return branches, nil
}

func (s *Service) ActivePackages(ctx context.Context) ([]types.Package, error) {
	rows, err := s.api.Packages(ctx)
	if err != nil {
		return nil, err
	}
	packages := make([]types.Package, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		packages = append(packages, row.ToDomain())
	}
	return packages, nil
}

func (s *Service) Gallery(ctx context.Context) ([]types.GalleryImage, error) {
	rows, err := s.api.Gallery(ctx)
	if err != nil {
		return nil, err
	}
	images := make([]types.GalleryImage, 0, len(rows))
	for _, row := range rows {
		images = append(images, row.ToDomain())
	}
	return images, nil
}
