package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"shiftgrab/internal/auth"
	"shiftgrab/internal/shift"
	"shiftgrab/internal/sms"
)

type StatusHandler struct {
	Svc *shift.Service
	SMS *sms.Client
}

// Get returns the caller's jobs (or one job via ?jobId=). Before any
// read it sweeps the caller's stale PENDING jobs to UNCLAIMED.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	if n, err := h.Svc.SweepStale(r.Context(), uid); err != nil {
		log.Printf("stale job sweep failed for user %d: %v\n", uid, err)
	} else if n > 0 {
		log.Printf("%d jobs moved to UNCLAIMED\n", n)
	}

	if idStr := r.URL.Query().Get("jobId"); idStr != "" {
		id64, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid jobId", http.StatusBadRequest)
			return
		}
		job, err := h.Svc.GetOwnedJob(r.Context(), uid, id64)
		if err != nil {
			if errors.Is(err, shift.ErrNotFound) || errors.Is(err, shift.ErrForbidden) {
				http.Error(w, "job not found or access denied", http.StatusNotFound)
				return
			}
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"job": job})
		return
	}

	jobs, err := h.Svc.ListJobs(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"jobs": jobs})
}

type removeReq struct {
	JobID uint64 `json:"jobId"`
}

// Delete removes a job (terminal REMOVED status) after notifying the
// owner's category numbers.
func (h *StatusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req removeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	job, err := h.Svc.GetOwnedJob(r.Context(), uid, req.JobID)
	if err != nil {
		switch {
		case errors.Is(err, shift.ErrNotFound):
			http.Error(w, "job not found", http.StatusNotFound)
		case errors.Is(err, shift.ErrForbidden):
			http.Error(w, "access denied: not your job", http.StatusForbidden)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}

	phones, err := h.Svc.OwnerCategoryNumbers(r.Context(), uid, job.Category)
	if err != nil {
		log.Printf("failed to load category numbers for job %d: %v\n", job.ID, err)
		phones = nil
	}

	text := fmt.Sprintf("The shift for %s on %s has been removed.",
		job.BusinessName, shift.FormatDate(job.Shift.Date))
	msgs := make([]sms.Message, 0, len(phones))
	for _, p := range phones {
		msgs = append(msgs, sms.Message{Phone: p.Number, Text: text})
	}
	h.SMS.Broadcast(r.Context(), msgs)

	if err := h.Svc.MarkRemoved(r.Context(), job.ID); err != nil {
		http.Error(w, "failed to remove shift", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Shift removed successfully",
	})
}
