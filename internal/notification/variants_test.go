package notification

import (
	"encoding/json"
	"testing"
)

func TestDecodeVariants(t *testing.T) {
	v := Decode(1, "survey", json.RawMessage(`{"invite_id":9,"partner_name":"Аня","place_name":"Кафе"}`))
	s, ok := v.(Survey)
	if !ok {
		t.Fatalf("decoded %T, want Survey", v)
	}
	if s.ID != 1 || s.InviteID != 9 || s.PartnerName != "Аня" || s.PlaceName != "Кафе" {
		t.Fatalf("unexpected survey: %+v", s)
	}

	v = Decode(2, "survey_followup", json.RawMessage(`{"partner_tg_id":77,"partner_name":"Боря"}`))
	f, ok := v.(SurveyFollowup)
	if !ok {
		t.Fatalf("decoded %T, want SurveyFollowup", v)
	}
	if f.PartnerTgID != 77 || f.PartnerName != "Боря" {
		t.Fatalf("unexpected followup: %+v", f)
	}

	v = Decode(3, "survey_negative", json.RawMessage(`{"message":"Жаль"}`))
	n, ok := v.(SurveyNegative)
	if !ok {
		t.Fatalf("decoded %T, want SurveyNegative", v)
	}
	if n.Message != "Жаль" {
		t.Fatalf("unexpected negative: %+v", n)
	}

	// Unknown types fall through to invite status, nothing is dropped.
	v = Decode(4, "something_new", json.RawMessage(`{"status":"accepted","responder_name":"Вера"}`))
	st, ok := v.(InviteStatus)
	if !ok {
		t.Fatalf("decoded %T, want InviteStatus", v)
	}
	if st.Status != "accepted" || st.ResponderName != "Вера" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	v := Decode(5, "survey", json.RawMessage(`not json`))
	s, ok := v.(Survey)
	if !ok {
		t.Fatalf("decoded %T, want Survey", v)
	}
	if s.ID != 5 {
		t.Fatalf("id lost on malformed payload: %+v", s)
	}
}

type recordingPresenter struct {
	shown []Variant
}

func (p *recordingPresenter) ShowSurvey(v Survey)                 { p.shown = append(p.shown, v) }
func (p *recordingPresenter) ShowSurveyFollowup(v SurveyFollowup) { p.shown = append(p.shown, v) }
func (p *recordingPresenter) ShowSurveyNegative(v SurveyNegative) { p.shown = append(p.shown, v) }
func (p *recordingPresenter) ShowInviteStatus(v InviteStatus)     { p.shown = append(p.shown, v) }

func TestPresentDispatch(t *testing.T) {
	p := &recordingPresenter{}
	Present(p, Survey{ID: 1})
	Present(p, InviteStatus{ID: 2})
	if len(p.shown) != 2 {
		t.Fatalf("presented %d variants, want 2", len(p.shown))
	}
	if _, ok := p.shown[0].(Survey); !ok {
		t.Fatalf("first shown %T, want Survey", p.shown[0])
	}
}
