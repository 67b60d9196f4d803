// internal/reviews/service.go
// Emoji reactions users leave on each other after a meal.

package reviews

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/meeteat/meeteat-client/internal/api"
)

// Reaction is one entry of the fixed catalogue.
type Reaction struct {
	Emoji string
	Label string
}

// Catalogue is the closed set of reactions the product offers.
var Catalogue = []Reaction{
	{Emoji: "😊", Label: "Приятный собеседник"},
	{Emoji: "😂", Label: "Весёлый"},
	{Emoji: "🧠", Label: "Интересно рассказывает"},
	{Emoji: "🤝", Label: "Надёжный"},
	{Emoji: "🍽", Label: "Знает хорошие места"},
}

// Known reports whether emoji belongs to the catalogue.
func Known(emoji string) bool {
	for _, r := range Catalogue {
		if r.Emoji == emoji {
			return true
		}
	}
	return false
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// For fetches the reaction aggregate for a user, including which reactions
// the viewer already left.
func (s *Service) For(ctx context.Context, targetTgID, viewerTgID int64) (api.ReviewsResponse, error) {
	q := url.Values{}
	q.Set("tg_id", strconv.FormatInt(targetTgID, 10))
	if viewerTgID != 0 {
		q.Set("viewer_tg_id", strconv.FormatInt(viewerTgID, 10))
	}

	var resp api.ReviewsResponse
	if err := s.client.GetJSON(ctx, "/api/reviews", q, &resp); err != nil {
		return api.ReviewsResponse{}, err
	}
	return resp, nil
}

// Toggle flips a reaction on the server and reports whether it ended up
// added or removed.
func (s *Service) Toggle(ctx context.Context, reviewerTgID, targetTgID int64, emoji string) (added bool, err error) {
	if !Known(emoji) {
		return false, fmt.Errorf("unknown reaction %q", emoji)
	}

	req := api.ReviewToggleRequest{
		ReviewerTgID: reviewerTgID,
		TargetTgID:   targetTgID,
		Reaction:     emoji,
	}
	var resp api.ReviewToggleResponse
	if err := s.client.PostJSON(ctx, "/api/review/toggle", req, &resp); err != nil {
		return false, err
	}
	if !resp.OK {
		return false, fmt.Errorf("review toggle rejected: %s", resp.Error)
	}
	return resp.Action == "added", nil
}
