package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"poker-colosseum/server/arena"
	"poker-colosseum/server/store"
)

func Router(db *store.DB, ctrl *arena.Controller, producer *arena.Producer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	// Newest 50 debates for the arena feed.
	r.Get("/api/arena-debates", func(w http.ResponseWriter, r *http.Request) {
		debates, err := db.ListDebates(r.Context(), 50)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		writeJSON(w, http.StatusOK, map[string]any{"debates": debates})
	})

	// Submit a vote for one side of a debate.
	r.Post("/api/arena-debates/{id}/vote", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var body struct {
			Side string `json:"side"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid id or side"})
			return
		}
		side := arena.Speaker(strings.ToLower(strings.TrimSpace(body.Side)))
		if id == "" || !side.Competing() {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid id or side"})
			return
		}

		gto, exploit, err := db.GetVotes(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Debate not found"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}

		col := "votes_gto"
		newVal := gto + 1
		if side == arena.Exploit {
			col = "votes_exploit"
			newVal = exploit + 1
		}
		if err := db.SetVoteCount(r.Context(), id, side, newVal); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]any{"error": "Debate not found"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, col: newVal})
	})

	// Automatic trigger (external scheduler): soft secret check plus a
	// dice roll so not every tick posts.
	r.Get("/api/generate-arena-debate", func(w http.ResponseWriter, r *http.Request) {
		if secret := strings.TrimSpace(os.Getenv("CRON_SECRET")); secret != "" {
			if r.Header.Get("Authorization") != "Bearer "+secret {
				log.Printf("cron trigger: bad or missing authorization header")
			}
		}
		prob := atoiDef(os.Getenv("POST_PROBABILITY"), 80)
		if !arena.RollPost(prob) {
			log.Println("skipped: not in the mood to post (dice roll)")
			writeJSON(w, http.StatusOK, map[string]any{"skipped": true, "message": "AI is sleeping or busy."})
			return
		}
		runLifecycle(w, r, ctrl)
	})

	// Manual trigger: always runs.
	r.Post("/api/generate-arena-debate", func(w http.ResponseWriter, r *http.Request) {
		runLifecycle(w, r, ctrl)
	})

	// Global faction split across every stored debate.
	r.Get("/api/faction-stats", func(w http.ResponseWriter, r *http.Request) {
		pairs, err := db.AllVotePairs(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, arena.ComputeShares(pairs))
	})

	// One-off analysis from a caller-supplied scenario, stored apart
	// from the arena lifecycle.
	r.Post("/api/debate", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Scenario *arena.Scenario `json:"scenario"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Scenario == nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "scenario is required"})
			return
		}

		gen := producer.CreateDebate(r.Context(), *body.Scenario, arena.FactionShares{GTOPct: 50, ExploitPct: 50})

		id := uuid.NewString()
		createdAt, err := db.InsertLabAnalysis(r.Context(), id, *body.Scenario, gen)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"transcript": gen,
			"id":         id,
			"created_at": createdAt,
		})
	})

	return r
}

func runLifecycle(w http.ResponseWriter, r *http.Request, ctrl *arena.Controller) {
	res, err := ctrl.Run(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		arena.Result
	}{Success: true, Result: res})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
