// internal/invites/service.go
// Sending meal invites and answering incoming ones.

package invites

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/identity"
)

// Meal type labels shown in the composer.
const (
	MealBreakfast = "Завтрак"
	MealLunch     = "Обед"
	MealDinner    = "Ужин"
	MealCoffee    = "Кофе"
)

const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// Compose is a draft invite before it goes on the wire.
type Compose struct {
	ToTgID    int64     `validate:"required,gt=0"`
	Time      time.Time `validate:"required"`
	MealType  string    `validate:"omitempty,oneof=Завтрак Обед Ужин Кофе"`
	PlaceID   *int64    `validate:"omitempty,gt=0"`
	PlaceName string    `validate:"omitempty,max=200"`
	Message   string    `validate:"omitempty,max=500"`
}

// DefaultMeetingTime is the composer's preset: tomorrow at 13:00 local.
func DefaultMeetingTime(now time.Time) time.Time {
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 13, 0, 0, 0, now.Location())
}

type Service struct {
	client   *api.Client
	ids      *identity.Resolver
	validate *validator.Validate
}

func NewService(client *api.Client, ids *identity.Resolver) *Service {
	return &Service{
		client:   client,
		ids:      ids,
		validate: validator.New(),
	}
}

// Send validates the draft and posts it. A zero Time gets the default
// meeting time.
func (s *Service) Send(ctx context.Context, draft Compose) (int64, error) {
	fromTg, ok := s.ids.TgID()
	if !ok {
		return 0, identity.ErrNoIdentity
	}

	if draft.Time.IsZero() {
		draft.Time = DefaultMeetingTime(time.Now())
	}
	if err := s.validate.Struct(draft); err != nil {
		return 0, fmt.Errorf("invalid invite: %w", err)
	}

	req := api.InviteRequest{
		FromTgID:  fromTg,
		ToTgID:    draft.ToTgID,
		TimeISO:   draft.Time.Format(time.RFC3339),
		MealType:  draft.MealType,
		PlaceID:   draft.PlaceID,
		PlaceName: draft.PlaceName,
		Message:   draft.Message,
	}
	var resp api.InviteResponse
	if err := s.client.PostJSON(ctx, "/api/invite", req, &resp); err != nil {
		return 0, err
	}
	if !resp.OK {
		return 0, fmt.Errorf("invite rejected: %s", resp.Error)
	}
	return resp.InviteID, nil
}

// Incoming returns pending invites addressed to the current user.
func (s *Service) Incoming(ctx context.Context) ([]api.Invite, error) {
	tgID, ok := s.ids.TgID()
	if !ok {
		return nil, identity.ErrNoIdentity
	}

	q := url.Values{}
	q.Set("tg_id", strconv.FormatInt(tgID, 10))
	var resp api.InvitesResponse
	if err := s.client.GetJSON(ctx, "/api/invites", q, &resp); err != nil {
		return nil, err
	}
	return resp.Invites, nil
}

// Respond accepts or declines an invite.
func (s *Service) Respond(ctx context.Context, inviteID int64, action string) error {
	if action != ActionAccept && action != ActionDecline {
		return fmt.Errorf("unknown invite action %q", action)
	}
	tgID, ok := s.ids.TgID()
	if !ok {
		return identity.ErrNoIdentity
	}

	req := api.InviteRespondRequest{
		InviteID:      inviteID,
		ResponderTgID: tgID,
		Action:        action,
	}
	var resp api.InviteRespondResponse
	if err := s.client.PostJSON(ctx, "/api/invite/respond", req, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("invite respond rejected: %s", resp.Error)
	}
	return nil
}
