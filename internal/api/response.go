package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

type Result struct {
	Data   any
	Status int
}

type PublicResponse[T any] struct {
	Data T `json:"data"`
}

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type handlerFunc func(r *http.Request) (*Result, *types.Error)

func NewResult[T any](data T) *Result {
	return &Result{Data: PublicResponse[T]{Data: data}, Status: http.StatusOK}
}

func (h *Handler) registerHandler(f handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := f(r)
		if err != nil {
			if err.StatusCode >= http.StatusInternalServerError {
				log.Ctx(r.Context()).Error().Err(err).Msg("request failed")
			}
			writeJSON(w, r, err.StatusCode, ErrorResponse{
				ErrorCode: err.ErrorCode.String(),
				Message:   err.Error(),
			})
			return
		}

		writeJSON(w, r, result.Status, result.Data)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}
