// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/middleware"
	"github.com/danielhkuo/bookclub/models"
	"github.com/danielhkuo/bookclub/periods"
)

type PeriodHandler struct {
	service *periods.Service
	logger  *zap.Logger
}

func NewPeriodHandler(service *periods.Service, logger *zap.Logger) *PeriodHandler {
	return &PeriodHandler{service: service, logger: logger}
}

// GetCurrentState handles GET /club/{clubId}/estado-actual
func (h *PeriodHandler) GetCurrentState(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubId")
	if clubID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "clubId es obligatorio")
		return
	}

	state, err := h.service.CurrentState(r.Context(), clubID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CurrentStateResponse{
		Success: true,
		Status:  state.Status(),
		Period:  state.Detail(),
	})
}

// CreatePeriod handles POST /club/{clubId}/periodos
func (h *PeriodHandler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubId")
	if clubID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "clubId es obligatorio")
		return
	}

	var req models.CreatePeriodRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		if errors.Is(err, models.ErrInvalidDate) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Formato de fecha inválido, use YYYY-MM-DD o RFC 3339")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	detail, err := h.service.CreatePeriod(r.Context(), periods.CreatePeriodInput{
		ClubID:        clubID,
		Name:          req.Name,
		VotingEndsAt:  req.VotingEndsAt,
		ReadingEndsAt: req.ReadingEndsAt,
		ClubBookIDs:   req.ClubBookIDs,
		Username:      req.Username,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePeriodResponse{
		Success: true,
		Message: fmt.Sprintf("Período \"%s\" creado exitosamente", detail.Name),
		Period:  detail,
	})
}

// CastVote handles POST /periodo/{periodoId}/votar
func (h *PeriodHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	periodID := r.PathValue("periodoId")
	if periodID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "periodoId es obligatorio")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "opcionId es obligatorio")
		return
	}

	receipt, err := h.service.CastVote(r.Context(), periodID, req.OptionID, req.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Success: true,
		Message: fmt.Sprintf("Voto registrado por \"%s\"", receipt.BookTitle),
		Vote:    receipt,
	})
}

// CloseVoting handles PUT /periodo/{periodoId}/cerrar-votacion
func (h *PeriodHandler) CloseVoting(w http.ResponseWriter, r *http.Request) {
	periodID := r.PathValue("periodoId")
	if periodID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "periodoId es obligatorio")
		return
	}

	var req models.CallerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	result, err := h.service.CloseVoting(r.Context(), periodID, req.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	winner := result.Winner.ClubBook.Book
	middleware.JSONResponse(w, http.StatusOK, models.CloseVotingResponse{
		Success: true,
		Message: fmt.Sprintf("Votación cerrada. \"%s\" es el libro ganador", winner.Title),
		Winner:  models.WinnerSummary{Book: winner, Votes: result.Winner.Votes},
		Results: periods.Results(result.Results),
		Period:  result.Period,
	})
}

// ConcludeReading handles PUT /periodo/{periodoId}/concluir-lectura
func (h *PeriodHandler) ConcludeReading(w http.ResponseWriter, r *http.Request) {
	periodID := r.PathValue("periodoId")
	if periodID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "periodoId es obligatorio")
		return
	}

	var req models.CallerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	result, err := h.service.ConcludeReading(r.Context(), periodID, req.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	book := result.BookRead.Book
	middleware.JSONResponse(w, http.StatusOK, models.ConcludeReadingResponse{
		Success:  true,
		Message:  fmt.Sprintf("Período \"%s\" concluido exitosamente", result.Period.Name),
		Period:   result.Period,
		BookRead: &book,
	})
}

// GetHistory handles GET /club/{clubId}/periodos/historial
func (h *PeriodHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubId")
	if clubID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "clubId es obligatorio")
		return
	}

	history, err := h.service.History(r.Context(), clubID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{
		Success: true,
		History: history,
	})
}

// writeError maps the period error taxonomy to HTTP statuses. Anything
// outside it is logged and reported as a generic 500.
func (h *PeriodHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *periods.Error
	if !errors.As(err, &perr) {
		h.logger.Error("period request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	middleware.ErrorResponse(w, statusForKind(perr.Kind), perr.Message)
}

func statusForKind(kind periods.Kind) int {
	switch kind {
	case periods.KindNotFound:
		return http.StatusNotFound
	case periods.KindForbidden:
		return http.StatusForbidden
	case periods.KindInvalidState, periods.KindInvalidInput:
		return http.StatusBadRequest
	case periods.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
