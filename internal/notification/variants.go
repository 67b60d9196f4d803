// internal/notification/variants.go
// Server notifications arrive as {type, payload}; Decode turns them into
// typed variants so presentation code gets a closed set to switch over.

package notification

import (
	"encoding/json"
)

const (
	typeSurvey         = "survey"
	typeSurveyFollowup = "survey_followup"
	typeSurveyNegative = "survey_negative"
)

// Variant is one of Survey, SurveyFollowup, SurveyNegative, InviteStatus.
type Variant interface {
	isVariant()
}

// Survey asks whether a planned meal actually happened.
type Survey struct {
	ID          int64
	InviteID    int64
	PartnerName string
	PlaceName   string
}

// SurveyFollowup asks the user to leave a reaction for a confirmed partner.
type SurveyFollowup struct {
	ID          int64
	PartnerTgID int64
	PartnerName string
	Prompt      string
}

// SurveyNegative acknowledges a meal that did not happen.
type SurveyNegative struct {
	ID      int64
	Message string
}

// InviteStatus reports the outcome of an invite the user sent. Unknown
// notification types land here too so nothing is silently dropped.
type InviteStatus struct {
	ID            int64
	Status        string
	ResponderName string
	MealType      string
	PlaceName     string
	TimeReadable  string
}

func (Survey) isVariant()         {}
func (SurveyFollowup) isVariant() {}
func (SurveyNegative) isVariant() {}
func (InviteStatus) isVariant()   {}

type surveyPayload struct {
	InviteID    int64  `json:"invite_id"`
	PartnerName string `json:"partner_name"`
	PlaceName   string `json:"place_name"`
}

type followupPayload struct {
	PartnerTgID int64  `json:"partner_tg_id"`
	PartnerName string `json:"partner_name"`
	Prompt      string `json:"prompt"`
}

type negativePayload struct {
	Message string `json:"message"`
}

type statusPayload struct {
	Status        string `json:"status"`
	ResponderName string `json:"responder_name"`
	MealType      string `json:"meal_type"`
	PlaceName     string `json:"place_name"`
	TimeReadable  string `json:"time_readable"`
}

// Decode maps a raw notification onto its variant. A malformed payload
// yields the variant with zero fields rather than an error; the id and type
// always survive.
func Decode(id int64, typ string, payload json.RawMessage) Variant {
	switch typ {
	case typeSurvey:
		var p surveyPayload
		_ = json.Unmarshal(payload, &p)
		return Survey{ID: id, InviteID: p.InviteID, PartnerName: p.PartnerName, PlaceName: p.PlaceName}
	case typeSurveyFollowup:
		var p followupPayload
		_ = json.Unmarshal(payload, &p)
		return SurveyFollowup{ID: id, PartnerTgID: p.PartnerTgID, PartnerName: p.PartnerName, Prompt: p.Prompt}
	case typeSurveyNegative:
		var p negativePayload
		_ = json.Unmarshal(payload, &p)
		return SurveyNegative{ID: id, Message: p.Message}
	default:
		var p statusPayload
		_ = json.Unmarshal(payload, &p)
		return InviteStatus{
			ID:            id,
			Status:        p.Status,
			ResponderName: p.ResponderName,
			MealType:      p.MealType,
			PlaceName:     p.PlaceName,
			TimeReadable:  p.TimeReadable,
		}
	}
}

// Presenter renders one variant each. Implementations decide modality.
type Presenter interface {
	ShowSurvey(v Survey)
	ShowSurveyFollowup(v SurveyFollowup)
	ShowSurveyNegative(v SurveyNegative)
	ShowInviteStatus(v InviteStatus)
}

// Present dispatches a variant to the matching Presenter method.
func Present(p Presenter, v Variant) {
	switch t := v.(type) {
	case Survey:
		p.ShowSurvey(t)
	case SurveyFollowup:
		p.ShowSurveyFollowup(t)
	case SurveyNegative:
		p.ShowSurveyNegative(t)
	case InviteStatus:
		p.ShowInviteStatus(t)
	}
}
