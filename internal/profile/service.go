// internal/profile/service.go
// Profile data: own profile, edits, recent contacts, similar users, and
// the scratch id used when viewing someone else's profile screen.

package profile

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/storage"
)

type Service struct {
	client *api.Client
	store  *storage.Store
}

func NewService(client *api.Client, store *storage.Store) *Service {
	return &Service{client: client, store: store}
}

// Get fetches a full profile: user fields, tags, recent contacts, match
// count.
func (s *Service) Get(ctx context.Context, tgID int64) (api.ProfileResponse, error) {
	q := url.Values{}
	q.Set("tg_id", strconv.FormatInt(tgID, 10))

	var resp api.ProfileResponse
	if err := s.client.GetJSON(ctx, "/api/profile", q, &resp); err != nil {
		return api.ProfileResponse{}, err
	}
	if !resp.OK {
		return api.ProfileResponse{}, fmt.Errorf("profile %d not found", tgID)
	}
	return resp, nil
}

// Update pushes changed fields and mirrors them into local storage so the
// next launch renders without a round trip.
func (s *Service) Update(ctx context.Context, req api.ProfileUpdateRequest) error {
	var resp api.OKResponse
	if err := s.client.PostJSON(ctx, "/api/profile/update", req, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("profile update rejected: %s", resp.Error)
	}

	if req.Name != nil {
		s.store.Set(storage.KeyName, *req.Name)
	}
	if req.Username != nil {
		s.store.Set(storage.KeyUsername, *req.Username)
	}
	if req.Avatar != nil {
		s.store.Set(storage.KeyAvatar, *req.Avatar)
	}
	return nil
}

// Similar returns users sharing interest tags with tgID.
func (s *Service) Similar(ctx context.Context, tgID int64, limit int) ([]api.SimilarUser, error) {
	q := url.Values{}
	q.Set("tg_id", strconv.FormatInt(tgID, 10))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp api.SimilarUsersResponse
	if err := s.client.GetJSON(ctx, "/api/users/similar", q, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// ViewUser records which user's profile screen is being opened. The value
// is scratch state, gone on restart.
func (s *Service) ViewUser(tgID int64) {
	s.store.SetScratch(storage.ScratchViewTgID, strconv.FormatInt(tgID, 10))
}

// ViewedUser returns the id recorded by ViewUser, or false when the screen
// shows the owner's profile.
func (s *Service) ViewedUser() (int64, bool) {
	raw, ok := s.store.Scratch(storage.ScratchViewTgID)
	if !ok {
		return 0, false
	}
	tgID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || tgID == 0 {
		return 0, false
	}
	return tgID, true
}

// ClearViewedUser drops the scratch id when leaving the foreign profile.
func (s *Service) ClearViewedUser() {
	s.store.SetScratch(storage.ScratchViewTgID, "")
}
