// internal/profile/tags.go
// Interest tags. Saved tags are normalized: lowercased, inner whitespace
// collapsed, duplicates dropped, order preserved.

package profile

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/meeteat/meeteat-client/internal/api"
)

// DefaultTags backs the tag picker when the catalogue endpoint is empty or
// unreachable.
var DefaultTags = []string{
	"кофе", "завтраки", "бизнес-ланч", "веганство", "суши",
	"пицца", "бургеры", "вино", "крафтовое пиво", "десерты",
	"стартапы", "it", "маркетинг", "дизайн", "спорт",
	"путешествия", "книги", "кино", "музыка", "настольные игры",
	"языки", "фотография", "психология", "инвестиции",
}

// NormalizeTags lowercases, collapses whitespace, and dedupes while keeping
// first-seen order. Empty results are dropped.
func NormalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		norm := strings.Join(strings.Fields(strings.ToLower(tag)), " ")
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

// Tags returns the user's saved tags.
func (s *Service) Tags(ctx context.Context, tgID int64) ([]string, error) {
	q := url.Values{}
	q.Set("tg_id", strconv.FormatInt(tgID, 10))

	var resp api.TagsResponse
	if err := s.client.GetJSON(ctx, "/api/profile/tags", q, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// SaveTags normalizes and stores the tag set.
func (s *Service) SaveTags(ctx context.Context, tgID int64, tags []string) error {
	req := api.SetTagsRequest{TgID: tgID, Tags: NormalizeTags(tags)}
	var resp api.OKResponse
	if err := s.client.PostJSON(ctx, "/api/profile/tags", req, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("tags save rejected: %s", resp.Error)
	}
	return nil
}

// AvailableTags returns the popularity-ordered catalogue, falling back to
// DefaultTags when the endpoint fails or comes back empty.
func (s *Service) AvailableTags(ctx context.Context, limit int) []api.TagCount {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp api.TagCatalogResponse
	if err := s.client.GetJSON(ctx, "/api/tags", q, &resp); err != nil {
		log.Printf("tag catalogue fetch failed: %v", err)
	}
	if len(resp.Tags) > 0 {
		return resp.Tags
	}

	fallback := make([]api.TagCount, 0, len(DefaultTags))
	for _, tag := range DefaultTags {
		fallback = append(fallback, api.TagCount{Tag: tag})
	}
	return fallback
}
