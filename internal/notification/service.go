// internal/notification/service.go

package notification

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/identity"
)

const (
	SurveyAnswerYes = "yes"
	SurveyAnswerNo  = "no"
)

type Service struct {
	client *api.Client
	ids    *identity.Resolver
}

func NewService(client *api.Client, ids *identity.Resolver) *Service {
	return &Service{client: client, ids: ids}
}

// Fetch returns the user's notifications, newest first, as the server
// orders them.
func (s *Service) Fetch(ctx context.Context) ([]api.Notification, error) {
	tgID, ok := s.ids.TgID()
	if !ok {
		return nil, identity.ErrNoIdentity
	}

	q := url.Values{}
	q.Set("tg_id", strconv.FormatInt(tgID, 10))
	var resp api.NotificationsResponse
	if err := s.client.GetJSON(ctx, "/api/notifications", q, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// MarkRead flags a notification as read on the server.
func (s *Service) MarkRead(ctx context.Context, notificationID int64) error {
	tgID, ok := s.ids.TgID()
	if !ok {
		return identity.ErrNoIdentity
	}

	req := api.MarkReadRequest{TgID: tgID, NotificationID: notificationID}
	var resp api.OKResponse
	return s.client.PostJSON(ctx, "/api/notifications/mark_read", req, &resp)
}

// RespondSurvey answers a did-the-meal-happen survey.
func (s *Service) RespondSurvey(ctx context.Context, inviteID int64, answer string) error {
	if answer != SurveyAnswerYes && answer != SurveyAnswerNo {
		return fmt.Errorf("unknown survey answer %q", answer)
	}
	tgID, ok := s.ids.TgID()
	if !ok {
		return identity.ErrNoIdentity
	}

	req := api.SurveyRespondRequest{InviteID: inviteID, TgID: tgID, Answer: answer}
	var resp api.OKResponse
	if err := s.client.PostJSON(ctx, "/api/survey/respond", req, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("survey respond rejected: %s", resp.Error)
	}
	return nil
}
