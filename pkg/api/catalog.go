package api

import (
	"context"
	"net/http"

	"github.com/glintwash/glintwash-client/pkg/types"
)

func (c *Client) Products(ctx context.Context) ([]types.ProductDTO, error) {
	var rows []types.ProductDTO
	if err := c.do(ctx, "products", http.MethodGet, "/api/products", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Branches(ctx context.Context) ([]types.BranchDTO, error) {
	var rows []types.BranchDTO
	if err := c.do(ctx, "branches", http.MethodGet, "/api/branches", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Packages(ctx context.Context) ([]types.PackageDTO, error) {
	var rows []types.PackageDTO
	if err := c.do(ctx, "packages", http.MethodGet, "/api/packages", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Gallery(ctx context.Context) ([]types.GalleryImageDTO, error) {
	var rows []types.GalleryImageDTO
	if err := c.do(ctx, "gallery", http.MethodGet, "/api/gallery", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
