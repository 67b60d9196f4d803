// internal/screens/fetcher.go

package screens

import (
	"context"

	"github.com/meeteat/meeteat-client/internal/api"
)

// HTTPFetcher loads screen fragments from the backend's static tree.
type HTTPFetcher struct {
	client *api.Client
}

func NewHTTPFetcher(client *api.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fragment(ctx context.Context, name string) (string, error) {
	return f.client.GetText(ctx, "/screens/"+name+".html")
}
