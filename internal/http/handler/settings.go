package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"shiftgrab/internal/auth"
	"shiftgrab/internal/shift"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsHandler struct {
	DB *gorm.DB
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var pref shift.UserPreference
	if err := h.DB.Where("user_id = ?", uid).First(&pref).Error; err != nil {
		http.Error(w, "preferences not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"preferences": map[string]any{
			"shiftTimes":       pref.ShiftTimes,
			"customCategories": []string(pref.CustomCategories),
		},
	})
}

type updateSettingsReq struct {
	ShiftTimes       json.RawMessage `json:"shiftTimes"`
	CustomCategories []string        `json:"customCategories"`
	Username         string          `json:"username"`
	Password         string          `json:"password"`
}

// Update upserts the caller's preference row and optionally changes the
// username and password in the same request.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req updateSettingsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if len(req.ShiftTimes) == 0 {
		req.ShiftTimes = json.RawMessage(`{}`)
	}

	pref := shift.UserPreference{
		UserID:           uid,
		ShiftTimes:       req.ShiftTimes,
		CustomCategories: normalizeCategories(req.CustomCategories),
	}
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"shift_times", "custom_categories"}),
	}).Create(&pref).Error
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	updates := map[string]any{}
	if v := strings.TrimSpace(req.Username); v != "" {
		updates["username"] = v
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		updates["password_hash"] = hash
	}
	if len(updates) > 0 {
		if err := h.DB.Model(&auth.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"preferences": map[string]any{
			"shiftTimes":       pref.ShiftTimes,
			"customCategories": []string(pref.CustomCategories),
		},
	})
}
