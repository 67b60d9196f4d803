// internal/places/service.go
// Curated meeting places shown in the invite composer.

package places

import (
	"context"
	"net/url"
	"strconv"

	"github.com/meeteat/meeteat-client/internal/api"
)

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// List fetches up to limit places. A non-positive limit uses the server
// default.
func (s *Service) List(ctx context.Context, limit int) ([]api.Place, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp api.PlacesResponse
	if err := s.client.GetJSON(ctx, "/api/places", q, &resp); err != nil {
		return nil, err
	}
	return resp.Places, nil
}
