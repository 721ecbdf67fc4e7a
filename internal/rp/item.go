package rp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ItemScope provides read operations on test items within a project.
type ItemScope struct {
	project *ProjectScope
}

// ListItemsOption configures filter and pagination for item listing.
type ListItemsOption func(params url.Values)

// List returns test items matching the given filters.
func (s *ItemScope) List(ctx context.Context, opts ...ListItemsOption) (*PagedItems, error) {
	params := url.Values{}
	for _, opt := range opts {
		opt(params)
	}

	u := fmt.Sprintf("%s/api/v1/%s/item?%s",
		s.project.client.baseURL, s.project.projectName, params.Encode())

	var paged PagedItems
	if err := s.project.client.doJSON(ctx, "GET", u, "list items", nil, &paged); err != nil {
		return nil, err
	}
	return &paged, nil
}

// ListAll returns all test items matching the filters, auto-paginating.
func (s *ItemScope) ListAll(ctx context.Context, opts ...ListItemsOption) ([]TestItemResource, error) {
	var all []TestItemResource
	page := 1
	pageSize := 200

	for {
		pageOpts := append(opts,
			WithItemPageSize(pageSize),
			WithItemPageNumber(page),
		)
		paged, err := s.List(ctx, pageOpts...)
		if err != nil {
			return nil, err
		}
		all = append(all, paged.Content...)
		if len(paged.Content) < pageSize {
			break
		}
		page++
	}
	return all, nil
}

// WithLaunchID filters items by launch ID.
func WithLaunchID(id int) ListItemsOption {
	return func(p url.Values) { p.Set("filter.eq.launchId", strconv.Itoa(id)) }
}

// WithStatus filters items by status (e.g. "FAILED").
func WithStatus(status string) ListItemsOption {
	return func(p url.Values) { p.Set("filter.eq.status", status) }
}

// WithItemType filters items by type (e.g. "TEST", "STEP", "SUITE").
func WithItemType(itemType string) ListItemsOption {
	return func(p url.Values) { p.Set("filter.eq.type", itemType) }
}

// WithItemPageSize sets the page size for item listing.
func WithItemPageSize(size int) ListItemsOption {
	return func(p url.Values) { p.Set("page.size", strconv.Itoa(size)) }
}

// WithItemPageNumber sets the page number for item listing.
func WithItemPageNumber(n int) ListItemsOption {
	return func(p url.Values) { p.Set("page.page", strconv.Itoa(n)) }
}
