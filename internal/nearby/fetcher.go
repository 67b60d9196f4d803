// internal/nearby/fetcher.go
// Queries the backend for candidates around a position and hands the result
// to a view. Errors are terminal here: the view shows an inline error state
// and nothing propagates, so the session engine keeps ticking regardless.

package nearby

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/geo"
)

// View renders the nearby list. Implementations live outside this package.
type View interface {
	Searching()
	Results(title string, candidates []api.Candidate)
	Empty()
	Unavailable()
}

type Fetcher struct {
	client   *api.Client
	view     View
	radiusKm float64
}

func NewFetcher(client *api.Client, view View, radiusKm float64) *Fetcher {
	if radiusKm <= 0 {
		radiusKm = 3.0
	}
	return &Fetcher{client: client, view: view, radiusKm: radiusKm}
}

// Fetch retrieves candidates for the position and returns them.
func (f *Fetcher) Fetch(ctx context.Context, tgID int64, pos geo.Position) ([]api.Candidate, error) {
	q := url.Values{}
	q.Set("tg_id", strconv.FormatInt(tgID, 10))
	q.Set("lat", fmt.Sprintf("%v", pos.Lat))
	q.Set("lon", fmt.Sprintf("%v", pos.Lon))
	q.Set("radius_km", fmt.Sprintf("%v", f.radiusKm))

	var resp api.NearbyResponse
	if err := f.client.GetJSON(ctx, "/nearby", q, &resp); err != nil {
		return nil, err
	}
	return resp.Nearby, nil
}

// Refresh fetches and renders; failures end at the view.
func (f *Fetcher) Refresh(ctx context.Context, tgID int64, pos geo.Position) {
	f.view.Searching()

	items, err := f.Fetch(ctx, tgID, pos)
	if err != nil {
		log.Printf("nearby fetch failed: %v", err)
		f.view.Unavailable()
		return
	}
	if len(items) == 0 {
		f.view.Empty()
		return
	}
	f.view.Results(CountTitle(len(items)), items)
}
