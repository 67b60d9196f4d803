// internal/api/types.go
// Wire types for every backend endpoint the client consumes.

package api

import "encoding/json"

// VerifyInitRequest carries the platform init token to /verify_init.
// InitData is either the raw signed query string or an already-parsed map.
type VerifyInitRequest struct {
	InitData interface{} `json:"initData"`
}

type VerifyInitResponse struct {
	OK       bool   `json:"ok"`
	TgID     int64  `json:"tg_id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Error    string `json:"error,omitempty"`
}

type StartRequest struct {
	TgID int64   `json:"tg_id"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type StartResponse struct {
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

type StopRequest struct {
	TgID int64 `json:"tg_id"`
}

// OKResponse covers the endpoints that answer with a bare ok/error pair.
type OKResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type Candidate struct {
	TgID       int64   `json:"tg_id"`
	Name       string  `json:"name,omitempty"`
	Username   string  `json:"username,omitempty"`
	Avatar     string  `json:"avatar,omitempty"`
	Age        int     `json:"age,omitempty"`
	DistanceKm float64 `json:"distance_km"`
	ExpiresAt  string  `json:"expires_at,omitempty"`
}

type NearbyResponse struct {
	Nearby []Candidate `json:"nearby"`
}

type User struct {
	TgID     int64  `json:"tg_id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Age      int    `json:"age,omitempty"`
}

type Contact struct {
	TgID     int64  `json:"tg_id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Age      int    `json:"age,omitempty"`
	LastSeen string `json:"last_seen,omitempty"`
}

type ProfileResponse struct {
	OK             bool      `json:"ok"`
	User           User      `json:"user"`
	Tags           []string  `json:"tags"`
	RecentContacts []Contact `json:"recent_contacts"`
	MatchCount     int       `json:"match_count"`
}

// ProfileUpdateRequest sends only the fields the caller wants changed.
type ProfileUpdateRequest struct {
	TgID     int64   `json:"tg_id"`
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

type TagsResponse struct {
	OK   bool     `json:"ok"`
	Tags []string `json:"tags"`
}

type SetTagsRequest struct {
	TgID int64    `json:"tg_id"`
	Tags []string `json:"tags"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type TagCatalogResponse struct {
	Tags []TagCount `json:"tags"`
}

type SimilarUser struct {
	TgID     int64    `json:"tg_id"`
	Name     string   `json:"name,omitempty"`
	Username string   `json:"username,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
	Age      int      `json:"age,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Common   int      `json:"common,omitempty"`
}

type SimilarUsersResponse struct {
	Users []SimilarUser `json:"users"`
}

type RecentReview struct {
	Reaction       string `json:"reaction"`
	Comment        string `json:"comment,omitempty"`
	CreatedAt      string `json:"created_at"`
	ReviewerTg     int64  `json:"reviewer_tg"`
	ReviewerName   string `json:"reviewer_name,omitempty"`
	ReviewerAvatar string `json:"reviewer_avatar,omitempty"`
}

type ReviewsResponse struct {
	OK     bool           `json:"ok"`
	Counts map[string]int `json:"counts"`
	Recent []RecentReview `json:"recent"`
	Viewer []string       `json:"viewer"`
}

type ReviewToggleRequest struct {
	ReviewerTgID int64  `json:"reviewer_tg_id"`
	TargetTgID   int64  `json:"target_tg_id"`
	Reaction     string `json:"reaction"`
}

type ReviewToggleResponse struct {
	OK       bool   `json:"ok"`
	Action   string `json:"action"` // "added" or "removed"
	Reaction string `json:"reaction"`
	Error    string `json:"error,omitempty"`
}

type InviteRequest struct {
	FromTgID  int64  `json:"from_tg_id"`
	ToTgID    int64  `json:"to_tg_id"`
	TimeISO   string `json:"time_iso"`
	MealType  string `json:"meal_type,omitempty"`
	PlaceID   *int64 `json:"place_id,omitempty"`
	PlaceName string `json:"place_name,omitempty"`
	Message   string `json:"message,omitempty"`
}

type InviteResponse struct {
	OK       bool   `json:"ok"`
	InviteID int64  `json:"invite_id"`
	Error    string `json:"error,omitempty"`
}

type Invite struct {
	ID        int64  `json:"id"`
	FromTg    int64  `json:"from_tg"`
	FromName  string `json:"from_name,omitempty"`
	TimeISO   string `json:"time_iso,omitempty"`
	MealType  string `json:"meal_type,omitempty"`
	Message   string `json:"message,omitempty"`
	Status    string `json:"status,omitempty"`
	PlaceID   *int64 `json:"place_id,omitempty"`
	PlaceName string `json:"place_name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type InvitesResponse struct {
	OK      bool     `json:"ok"`
	Invites []Invite `json:"invites"`
}

type InviteRespondRequest struct {
	InviteID      int64  `json:"invite_id"`
	ResponderTgID int64  `json:"responder_tg_id"`
	Action        string `json:"action"` // "accept" or "decline"
}

type InviteRespondResponse struct {
	OK       bool   `json:"ok"`
	InviteID int64  `json:"invite_id"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// Notification keeps the payload raw; internal/notification decodes it
// into a typed variant based on Type.
type Notification struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Read      bool            `json:"read"`
	CreatedAt string          `json:"created_at,omitempty"`
}

type NotificationsResponse struct {
	OK            bool           `json:"ok"`
	Notifications []Notification `json:"notifications"`
}

type MarkReadRequest struct {
	TgID           int64 `json:"tg_id"`
	NotificationID int64 `json:"notification_id"`
}

type SurveyRespondRequest struct {
	InviteID int64  `json:"invite_id"`
	TgID     int64  `json:"tg_id"`
	Answer   string `json:"answer"` // "yes" or "no"
}

type Place struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Address   string  `json:"address,omitempty"`
	Photo     string  `json:"photo,omitempty"`
	OpenTime  string  `json:"open_time,omitempty"`
	CloseTime string  `json:"close_time,omitempty"`
}

type PlacesResponse struct {
	Places []Place `json:"places"`
}
