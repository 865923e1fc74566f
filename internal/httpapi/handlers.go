package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/quizcard/internal/feedback"
	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/session"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getBank(w http.ResponseWriter, r *http.Request) {
	out := bankResponse{
		Title:       s.bank.Title,
		Version:     s.bank.Version,
		Description: s.bank.Description,
		Items:       make([]itemSummary, len(s.bank.Items)),
	}
	for i, it := range s.bank.Items {
		out.Items[i] = itemSummary{ID: it.ID, Text: it.Text, Options: it.Options, Category: it.Category}
	}
	respondJSON(w, http.StatusOK, out)
}

// itemView computes a card without any session: ?selected=N previews the
// answered state.
func (s *Server) itemView(w http.ResponseWriter, r *http.Request) {
	it, ok := s.bank.Find(chi.URLParam(r, "itemID"))
	if !ok {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}

	sel := feedback.Unanswered()
	if raw := r.URL.Query().Get("selected"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("selected: %q is not an integer", raw))
			return
		}
		sel = feedback.Answered(n)
	}

	vm, err := feedback.ComputeView(it.Question(), sel)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, card(it, vm, ""))
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := s.bank.Items
	if req.Shuffle {
		s.mu.Lock()
		items = quiz.ShuffleItems(items, true, s.rng)
		s.mu.Unlock()
	}

	// The session is private to this request until tracked.
	sess, err := session.New(s.bank.Title, items, s.reporter())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	warning := s.warn(sess.Start(r.Context()))
	out, err := sessionCard(sess)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out.Warning = warning
	s.track(sess)
	respondJSON(w, http.StatusCreated, out)
}

// withSession runs fn with the session named in the URL while holding that
// session's lock. Other sessions are not blocked.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session)) {
	live, ok := s.lookup(chi.URLParam(r, "sessionID"))
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	fn(live.sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) {
		if sess.Done() {
			respondJSON(w, http.StatusOK, nextResponse{Done: true, Summary: toSummary(sess.Summary())})
			return
		}
		out, err := sessionCard(sess)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, out)
	})
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Selected == nil {
		respondError(w, http.StatusBadRequest, "selected is required")
		return
	}

	s.withSession(w, r, func(sess *session.Session) {
		vm, err := sess.Select(r.Context(), *req.Selected)
		warning := ""
		if session.IsReportError(err) {
			warning = s.warn(err)
			err = nil
		}
		if err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		out := card(sess.Current(), vm, sess.ID)
		out.Progress = toProgress(sess.Progress())
		out.Warning = warning
		respondJSON(w, http.StatusOK, out)
	})
}

func (s *Server) next(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) {
		more, err := sess.Next(r.Context())
		warning := ""
		if session.IsReportError(err) {
			warning = s.warn(err)
			err = nil
		}
		if err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		if !more {
			respondJSON(w, http.StatusOK, nextResponse{Done: true, Summary: toSummary(sess.Summary()), Warning: warning})
			return
		}
		out, err := sessionCard(sess)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, nextResponse{Card: out, Warning: warning})
	})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) {
		respondJSON(w, http.StatusOK, toSummary(sess.Summary()))
	})
}

// card builds the response for item it; the explanation is only revealed
// once answered.
func card(it quiz.Item, vm feedback.ViewModel, sessionID string) *cardResponse {
	out := &cardResponse{
		SessionID: sessionID,
		ItemID:    it.ID,
		Text:      it.Text,
		View:      vm,
	}
	if vm.Answered() {
		out.Explanation = it.Explanation
	}
	return out
}

func sessionCard(sess *session.Session) (*cardResponse, error) {
	vm, err := sess.View()
	if err != nil {
		return nil, err
	}
	out := card(sess.Current(), vm, sess.ID)
	out.Progress = toProgress(sess.Progress())
	return out, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, feedback.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrAlreadyAnswered),
		errors.Is(err, session.ErrNotAnswered),
		errors.Is(err, session.ErrFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeOptional decodes a JSON body if there is one.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
