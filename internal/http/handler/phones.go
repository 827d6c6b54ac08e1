package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"shiftgrab/internal/auth"
	"shiftgrab/internal/shift"

	"gorm.io/gorm"
)

type PhonesHandler struct {
	DB *gorm.DB
}

// List returns the caller's phone numbers, optionally filtered by
// category.
func (h *PhonesHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	q := h.DB.Where("user_id = ?", uid)
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		q = q.Where("? = any(categories)", strings.ToLower(c))
	}

	var phones []shift.PhoneNumber
	if err := q.Find(&phones).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"phoneNumbers": phones})
}

func (h *PhonesHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req phoneInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Number = strings.TrimSpace(req.Number)
	cats := normalizeCategories(req.Categories)
	if req.Name == "" || req.Number == "" || len(cats) == 0 {
		http.Error(w, "name, number, and categories are required", http.StatusBadRequest)
		return
	}

	phone := shift.PhoneNumber{
		UserID:     uid,
		Name:       req.Name,
		Number:     req.Number,
		Categories: cats,
	}
	if err := h.DB.Create(&phone).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"phoneNumber": phone})
}

type updatePhoneReq struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	Number     string   `json:"number"`
	Categories []string `json:"categories"`
}

func (h *PhonesHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req updatePhoneReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	var phone shift.PhoneNumber
	if err := h.DB.Where("id = ? AND user_id = ?", req.ID, uid).First(&phone).Error; err != nil {
		http.Error(w, "phone number not found or access denied", http.StatusNotFound)
		return
	}

	phone.Name = strings.TrimSpace(req.Name)
	phone.Number = strings.TrimSpace(req.Number)
	phone.Categories = normalizeCategories(req.Categories)
	if err := h.DB.Save(&phone).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"updatedPhoneNumber": phone})
}

type deletePhoneReq struct {
	ID uint64 `json:"id"`
}

func (h *PhonesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req deletePhoneReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	var phone shift.PhoneNumber
	if err := h.DB.Where("id = ? AND user_id = ?", req.ID, uid).First(&phone).Error; err != nil {
		http.Error(w, "phone number not found or access denied", http.StatusNotFound)
		return
	}

	if err := h.DB.Delete(&phone).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"message": "Phone number deleted successfully"})
}

type publicPhoneDTO struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// PublicList exposes id/name/number for a category, backing the public
// claim page's worker picker.
func (h *PhonesHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	if category == "" {
		http.Error(w, "category is required", http.StatusBadRequest)
		return
	}

	var phones []shift.PhoneNumber
	if err := h.DB.Where("? = any(categories)", category).Find(&phones).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]publicPhoneDTO, 0, len(phones))
	for _, p := range phones {
		out = append(out, publicPhoneDTO{ID: p.ID, Name: p.Name, Number: p.Number})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"phoneNumbers": out})
}

type optOutReq struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// OptOut flags a number so it stops receiving notifications. The name
// match is case-insensitive so workers can type their own name.
func (h *PhonesHandler) OptOut(w http.ResponseWriter, r *http.Request) {
	var req optOutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Number = strings.TrimSpace(req.Number)
	req.Name = strings.TrimSpace(req.Name)
	if req.Number == "" || req.Name == "" {
		http.Error(w, "name and phone number are required", http.StatusBadRequest)
		return
	}

	var phone shift.PhoneNumber
	err := h.DB.Where("number = ? AND lower(name) = lower(?)", req.Number, req.Name).First(&phone).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "include your first and last name", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if err := h.DB.Model(&phone).Update("opted_out", true).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"message": "Successfully opted out of messages"})
}

type optInReq struct {
	ID uint64 `json:"id"`
}

func (h *PhonesHandler) OptIn(w http.ResponseWriter, r *http.Request) {
	var req optInReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.ID == 0 {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	res := h.DB.Model(&shift.PhoneNumber{}).Where("id = ?", req.ID).Update("opted_out", false)
	if res.Error != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "phone number not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"message": "User opted back in successfully"})
}
