package store

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/noah-isme/campus-funding-api/internal/models"
)

// Encode renders the snapshot as the persisted JSON blob.
func Encode(snap models.Snapshot) ([]byte, error) {
	if snap.Users == nil {
		snap.Users = []models.User{}
	}
	if snap.Requests == nil {
		snap.Requests = []models.FundingRequest{}
	}
	return json.MarshalIndent(snap, "", "  ")
}

// rawUser and rawRequest accept whatever field types a hand-edited or
// damaged blob carries; Decode coerces them with per-field defaults.
type rawUser struct {
	ID   json.RawMessage `json:"id"`
	Name json.RawMessage `json:"name"`
	Role json.RawMessage `json:"role"`
}

type rawRequest struct {
	ID        json.RawMessage `json:"id"`
	StudentID json.RawMessage `json:"student_id"`
	Amount    json.RawMessage `json:"amount"`
	Urgency   json.RawMessage `json:"urgency"`
	Status    json.RawMessage `json:"status"`
}

type rawSnapshot struct {
	Users    []rawUser    `json:"users"`
	Requests []rawRequest `json:"requests"`
}

// Decode parses a snapshot blob leniently. Unparseable content yields an
// empty snapshot rather than an error; malformed fields fall back to their
// defaults (name "", role student, amount 0, urgency 1, status submitted)
// instead of aborting the whole load. Records without an id are dropped.
func Decode(data []byte) models.Snapshot {
	snap := models.Snapshot{}
	if len(data) == 0 {
		return snap
	}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return snap
	}

	for _, u := range raw.Users {
		id := asString(u.ID, "")
		if id == "" {
			continue
		}
		role := models.UserRole(asString(u.Role, string(models.RoleStudent)))
		if !role.Valid() {
			role = models.RoleStudent
		}
		snap.Users = append(snap.Users, models.User{
			ID:   id,
			Name: asString(u.Name, ""),
			Role: role,
		})
	}

	for _, r := range raw.Requests {
		id := asString(r.ID, "")
		if id == "" {
			continue
		}
		status := models.RequestStatus(asString(r.Status, string(models.StatusSubmitted)))
		switch status {
		case models.StatusSubmitted, models.StatusApproved, models.StatusRejected, models.StatusFunded:
		default:
			status = models.StatusSubmitted
		}
		snap.Requests = append(snap.Requests, models.FundingRequest{
			ID:        id,
			StudentID: asString(r.StudentID, ""),
			Amount:    asFloat(r.Amount, 0),
			Urgency:   asInt(r.Urgency, 1),
			Status:    status,
		})
	}

	return snap
}

func asString(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return fallback
}

func asFloat(raw json.RawMessage, fallback float64) float64 {
	if len(raw) == 0 {
		return fallback
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	// Numbers persisted as strings still load.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return fallback
}

func asInt(raw json.RawMessage, fallback int) int {
	if len(raw) == 0 {
		return fallback
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return fallback
}
