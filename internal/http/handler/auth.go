package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"shiftgrab/internal/auth"
	"shiftgrab/internal/shift"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB  *gorm.DB
	JWT *auth.JWT
}

type phoneInput struct {
	Name       string   `json:"name"`
	Number     string   `json:"number"`
	Categories []string `json:"categories"`
}

type registerReq struct {
	Username         string          `json:"username"`
	Password         string          `json:"password"`
	BusinessName     string          `json:"businessName"`
	PhoneNumbers     []phoneInput    `json:"phoneNumbers"`
	ShiftTimes       json.RawMessage `json:"shiftTimes"`
	CustomCategories []string        `json:"customCategories"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 8 {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if len(req.ShiftTimes) == 0 {
		req.ShiftTimes = json.RawMessage(`{}`)
	}

	u := auth.User{
		Username:     req.Username,
		PasswordHash: hash,
		BusinessName: strings.TrimSpace(req.BusinessName),
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}

		for _, p := range req.PhoneNumbers {
			phone := shift.PhoneNumber{
				UserID:     u.ID,
				Name:       strings.TrimSpace(p.Name),
				Number:     strings.TrimSpace(p.Number),
				Categories: normalizeCategories(p.Categories),
			}
			if err := tx.Create(&phone).Error; err != nil {
				return err
			}
		}

		pref := shift.UserPreference{
			UserID:           u.ID,
			ShiftTimes:       req.ShiftTimes,
			CustomCategories: normalizeCategories(req.CustomCategories),
		}
		return tx.Create(&pref).Error
	})
	if err != nil {
		http.Error(w, "username already exists", http.StatusBadRequest)
		return
	}

	token, err := h.JWT.Sign(u.ID)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token": token,
	})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	var u auth.User
	if err := h.DB.Where("username = ?", req.Username).First(&u).Error; err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !auth.ComparePassword(u.PasswordHash, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.JWT.Sign(u.ID)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token": token,
	})
}

// User returns the caller's profile and preferences. The business name
// falls back to the username when unset.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var u auth.User
	if err := h.DB.Where("id = ?", uid).First(&u).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var pref shift.UserPreference
	shiftTimes := json.RawMessage(`{}`)
	customCategories := []string{}
	if err := h.DB.Where("user_id = ?", uid).First(&pref).Error; err == nil {
		shiftTimes = pref.ShiftTimes
		customCategories = []string(pref.CustomCategories)
	}

	businessName := u.BusinessName
	if businessName == "" {
		businessName = u.Username
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user": map[string]any{
			"username":     u.Username,
			"businessName": businessName,
			"preferences": map[string]any{
				"shiftTimes":       shiftTimes,
				"customCategories": customCategories,
			},
		},
	})
}

func normalizeCategories(in []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
