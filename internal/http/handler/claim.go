package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"shiftgrab/internal/shift"
	"shiftgrab/internal/sms"
)

type ClaimHandler struct {
	Svc     *shift.Service
	SMS     *sms.Client
	BaseURL string
}

type claimReq struct {
	JobID      uint64 `json:"jobId"`
	WorkerName string `json:"workerName"`
}

// Claim assigns a worker to an unclaimed job. The status transition is
// the only step that can fail the request; reminder scheduling and the
// notification fan-out are logged-only side effects.
func (h *ClaimHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.WorkerName = strings.TrimSpace(req.WorkerName)
	if req.JobID == 0 || req.WorkerName == "" {
		http.Error(w, "jobId and workerName required", http.StatusBadRequest)
		return
	}

	job, win, err := h.Svc.Claim(r.Context(), req.JobID, req.WorkerName)
	if err != nil {
		switch {
		case errors.Is(err, shift.ErrNotFound):
			http.Error(w, "job not found", http.StatusNotFound)
		case errors.Is(err, shift.ErrAlreadyClaimed), errors.Is(err, shift.ErrRemoved):
			http.Error(w, "job already claimed", http.StatusBadRequest)
		case errors.Is(err, shift.ErrInvalidShift):
			http.Error(w, "invalid shift times", http.StatusBadRequest)
		default:
			http.Error(w, "failed to claim job", http.StatusInternalServerError)
		}
		return
	}

	if err := h.Svc.ScheduleReminder(r.Context(), job, win, req.WorkerName); err != nil {
		log.Printf("failed to schedule reminder for job %d: %v\n", job.ID, err)
	}

	phones, err := h.Svc.CategoryNumbers(r.Context(), job.Category)
	if err != nil {
		log.Printf("failed to load category numbers for job %d: %v\n", job.ID, err)
		phones = nil
	}

	thankYouLink := fmt.Sprintf("%s/thank-you/%s", h.BaseURL, job.Token)
	date := shift.FormatDate(job.Shift.Date)
	times := shift.FormatRange(job.Shift)

	// confirmation to the claimant first, then the rest of the category
	// concurrently
	others := make([]sms.Message, 0, len(phones))
	for _, p := range phones {
		if p.Name == req.WorkerName {
			text := fmt.Sprintf("Thank you for claiming the job for %s on %s from %s. Need to unclaim? Unclaim the shift here: %s",
				job.BusinessName, date, times, thankYouLink)
			if err := h.SMS.Send(r.Context(), p.Number, text); err != nil {
				log.Printf("failed to send SMS to %s: %v\n", p.Number, err)
			}
			continue
		}
		others = append(others, sms.Message{
			Phone: p.Number,
			Text: fmt.Sprintf("%s has claimed the shift for %s on %s from %s.",
				req.WorkerName, job.BusinessName, date, times),
		})
	}
	h.SMS.Broadcast(r.Context(), others)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Shift successfully claimed",
		"job":     job,
	})
}

type unclaimReq struct {
	JobID uint64 `json:"jobId"`
}

// Unclaim reverts a job to UNCLAIMED and tells the category audience
// the shift is open again.
func (h *ClaimHandler) Unclaim(w http.ResponseWriter, r *http.Request) {
	var req unclaimReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.JobID == 0 {
		http.Error(w, "jobId required", http.StatusBadRequest)
		return
	}

	job, err := h.Svc.Unclaim(r.Context(), req.JobID)
	if err != nil {
		switch {
		case errors.Is(err, shift.ErrNotFound):
			http.Error(w, "job or shift details not found", http.StatusNotFound)
		case errors.Is(err, shift.ErrRemoved):
			http.Error(w, "job removed", http.StatusBadRequest)
		default:
			http.Error(w, "failed to unclaim job", http.StatusInternalServerError)
		}
		return
	}

	phones, err := h.Svc.CategoryNumbers(r.Context(), job.Category)
	if err != nil {
		log.Printf("failed to load category numbers for job %d: %v\n", job.ID, err)
		phones = nil
	}

	claimLink := fmt.Sprintf("%s/claim-shift/%s", h.BaseURL, job.Token)
	text := fmt.Sprintf("The job for %s on %s from %s is now unclaimed and available. Claim it here: %s",
		job.BusinessName, shift.FormatDate(job.Shift.Date), shift.FormatRange(job.Shift), claimLink)

	msgs := make([]sms.Message, 0, len(phones))
	for _, p := range phones {
		msgs = append(msgs, sms.Message{Phone: p.Number, Text: text})
	}
	h.SMS.Broadcast(r.Context(), msgs)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Shift successfully unclaimed",
	})
}
