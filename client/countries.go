package client

import (
	"context"
	"net/url"
)

// CountryService handles country listing and border lookups.
type CountryService struct {
	c *Client
}

// All returns every country with its name, cca3 code and area.
func (s *CountryService) All(ctx context.Context) ([]Country, error) {
	params := url.Values{"fields": {"name", "cca3", "area"}}
	var resp []Country
	if err := s.c.get(ctx, "/all", params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Borders returns the border codes of the country identified by code.
// It is a single round trip with no retry.
func (s *CountryService) Borders(ctx context.Context, code string) (*BordersResponse, error) {
	params := url.Values{"fields": {"borders"}}
	var resp BordersResponse
	if err := s.c.get(ctx, "/alpha/"+url.PathEscape(code), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
