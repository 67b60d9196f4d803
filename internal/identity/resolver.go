// internal/identity/resolver.go
// Resolves the platform-supplied identity into a stable numeric user id.

package identity

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/storage"
)

// ErrNoIdentity means no persisted id and no verifiable init token exist.
// Callers surface this as "open the app via the host platform".
var ErrNoIdentity = errors.New("no resolvable identity: open via host platform")

type Identity struct {
	TgID     int64
	Name     string
	Username string
	Avatar   string
}

// Platform exposes what the host environment knows about the launch.
type Platform interface {
	// InitData returns the live signed init-data string, or "".
	InitData() string
	// LaunchURL returns the URL the app was opened with, or "".
	LaunchURL() string
	// InitDataUnsafe returns the host's pre-parsed init object, or nil.
	// Least trustworthy source; used only as a last resort.
	InitDataUnsafe() map[string]string
}

type Resolver struct {
	client   *api.Client
	store    *storage.Store
	platform Platform
}

func NewResolver(client *api.Client, store *storage.Store, platform Platform) *Resolver {
	return &Resolver{client: client, store: store, platform: platform}
}

// Resolve returns the current identity. Fast path: a previously persisted id
// is returned without any network call. Otherwise the init token is extracted,
// verified against the backend, and the result persisted.
func (r *Resolver) Resolve(ctx context.Context) (Identity, error) {
	if saved, ok := r.persisted(); ok {
		return saved, nil
	}

	token := r.extractToken()
	if token == nil {
		return Identity{}, ErrNoIdentity
	}

	resp := r.verify(ctx, token)
	if !resp.OK || resp.TgID == 0 {
		return Identity{}, ErrNoIdentity
	}

	id := Identity{
		TgID:     resp.TgID,
		Name:     resp.Name,
		Username: resp.Username,
		Avatar:   resp.Avatar,
	}
	r.persist(id)

	// Push the profile fields to the backend without blocking the caller.
	go r.syncProfile(id)

	return id, nil
}

// TgID returns the persisted id without attempting verification.
func (r *Resolver) TgID() (int64, bool) {
	saved, ok := r.persisted()
	if !ok {
		return 0, false
	}
	return saved.TgID, true
}

func (r *Resolver) persisted() (Identity, bool) {
	raw, ok := r.store.Get(storage.KeyTgID)
	if !ok {
		return Identity{}, false
	}
	tgID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || tgID == 0 {
		return Identity{}, false
	}
	id := Identity{TgID: tgID}
	id.Name, _ = r.store.Get(storage.KeyName)
	id.Username, _ = r.store.Get(storage.KeyUsername)
	id.Avatar, _ = r.store.Get(storage.KeyAvatar)
	return id, true
}

// extractToken picks the init token in trust order: live init-data string,
// URL-embedded tgWebAppData, pre-parsed init object.
func (r *Resolver) extractToken() interface{} {
	if raw := r.platform.InitData(); raw != "" {
		return raw
	}
	if data := ExtractWebAppData(r.platform.LaunchURL()); data != nil {
		return data
	}
	if unsafe := r.platform.InitDataUnsafe(); len(unsafe) > 0 {
		return unsafe
	}
	return nil
}

// verify converts network failure into a semantic not-ok so every caller
// handles rejection uniformly.
func (r *Resolver) verify(ctx context.Context, token interface{}) api.VerifyInitResponse {
	var resp api.VerifyInitResponse
	err := r.client.PostJSON(ctx, "/verify_init", api.VerifyInitRequest{InitData: token}, &resp)
	if err != nil {
		log.Printf("verify_init failed: %v", err)
		return api.VerifyInitResponse{OK: false, Error: err.Error()}
	}
	return resp
}

func (r *Resolver) persist(id Identity) {
	if err := r.store.Set(storage.KeyTgID, strconv.FormatInt(id.TgID, 10)); err != nil {
		log.Printf("persist tg_id failed: %v", err)
	}
	if id.Name != "" {
		r.store.Set(storage.KeyName, id.Name)
	}
	if id.Username != "" {
		r.store.Set(storage.KeyUsername, id.Username)
	}
	if id.Avatar != "" {
		r.store.Set(storage.KeyAvatar, id.Avatar)
	}
}

// syncProfile is fire-and-forget: failure is logged, never surfaced.
func (r *Resolver) syncProfile(id Identity) {
	req := api.ProfileUpdateRequest{TgID: id.TgID}
	if id.Name != "" {
		req.Name = &id.Name
	}
	if id.Username != "" {
		req.Username = &id.Username
	}
	if id.Avatar != "" {
		req.Avatar = &id.Avatar
	}

	var resp api.OKResponse
	if err := r.client.PostJSON(context.Background(), "/api/profile/update", req, &resp); err != nil {
		log.Printf("profile sync failed: %v", err)
	}
}
