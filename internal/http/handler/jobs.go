package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"shiftgrab/internal/auth"
	"shiftgrab/internal/shift"
	"shiftgrab/internal/sms"

	"github.com/go-chi/chi/v5"
)

type JobsHandler struct {
	Svc     *shift.Service
	SMS     *sms.Client
	BaseURL string
}

type shiftReq struct {
	Type      string `json:"type"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type createJobReq struct {
	BusinessName   string   `json:"businessName"`
	JobDescription string   `json:"jobDescription"`
	Category       string   `json:"category"`
	Shift          shiftReq `json:"shift"`
}

// Create posts a new job and broadcasts it to the owner's phone numbers
// in the job's category. The job persists even when the broadcast
// cannot reach anyone.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createJobReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	job, err := h.Svc.CreateJob(r.Context(), uid, shift.CreateJobInput{
		BusinessName:   req.BusinessName,
		JobDescription: req.JobDescription,
		Category:       req.Category,
		ShiftType:      strings.ToUpper(strings.TrimSpace(req.Shift.Type)),
		Date:           req.Shift.Date,
		StartTime:      req.Shift.StartTime,
		EndTime:        req.Shift.EndTime,
	})
	if err != nil {
		if errors.Is(err, shift.ErrInvalidShift) {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	phones, err := h.Svc.OwnerCategoryNumbers(r.Context(), uid, job.Category)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if len(phones) == 0 {
		http.Error(w, shift.ErrNoPhoneNumbers.Error(), http.StatusBadRequest)
		return
	}

	msgs := make([]sms.Message, 0, len(phones))
	for _, p := range phones {
		msgs = append(msgs, sms.Message{Phone: p.Number, Text: h.broadcastText(job, p.Number)})
	}
	h.SMS.Broadcast(r.Context(), msgs)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"job": job})
}

// Get is the public job lookup backing the claim-shift page. Accepts a
// numeric id or a claim-link token.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.Svc.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, shift.ErrNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"job": job})
}

func shiftTypeLabel(t string) string {
	switch t {
	case shift.TypeMorning:
		return "Morning Shift"
	case shift.TypeMidday:
		return "Midday Shift"
	case shift.TypeNight:
		return "Night Shift"
	default:
		return "Custom Shift"
	}
}

func (h *JobsHandler) broadcastText(job *shift.Job, number string) string {
	claimLink := fmt.Sprintf("%s/claim-shift/%s", h.BaseURL, job.Token)
	optOutLink := fmt.Sprintf("%s/opt-out?number=%s", h.BaseURL, url.QueryEscape(number))

	return fmt.Sprintf(`%s
New %s Available
Date: %s
Time: %s
Category: %s
%s
Claim the shift: %s

Want to opt out of these messages? Press here: %s`,
		job.BusinessName,
		shiftTypeLabel(job.Shift.Type),
		shift.FormatDate(job.Shift.Date),
		shift.FormatRange(job.Shift),
		job.Category,
		job.JobDescription,
		claimLink,
		optOutLink,
	)
}
