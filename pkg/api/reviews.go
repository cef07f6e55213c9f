package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/glintwash/glintwash-client/pkg/types"
)

type ReviewCreateRequest struct {
	UserID  int64  `json:"user_id"`
	OrderID int64  `json:"order_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewUpdateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (c *Client) ReviewCreate(ctx context.Context, req ReviewCreateRequest) (*types.ReviewDTO, error) {
	var dto types.ReviewDTO
	if err := c.do(ctx, "reviews", http.MethodPost, "/api/reviews", req, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) ReviewUpdate(ctx context.Context, reviewID int64, req ReviewUpdateRequest) (*types.ReviewDTO, error) {
	var dto types.ReviewDTO
	if err := c.do(ctx, "reviews", http.MethodPut, fmt.Sprintf("/api/reviews/%d", reviewID), req, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) ReviewDelete(ctx context.Context, reviewID int64) error {
	return c.do(ctx, "reviews", http.MethodDelete, fmt.Sprintf("/api/reviews/%d", reviewID), nil, nil)
}

func (c *Client) ReviewsByUser(ctx context.Context, userID int64) ([]types.ReviewDTO, error) {
	var rows []types.ReviewDTO
	if err := c.do(ctx, "reviews", http.MethodGet, fmt.Sprintf("/api/reviews/user/%d", userID), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
