package server

import (
	"PetAIBackend/internal/service/diagnosis"
	"encoding/json"
	"errors"
	"net/http"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor сопоставляет класс ошибки с HTTP-статусом: InvalidRequest → 400, всё остальное → 500.
func statusFor(err error) int {
	if errors.Is(err, diagnosis.ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// detailFor возвращает сообщение для поля detail.
func detailFor(err error) string {
	var derr *diagnosis.Error
	if errors.As(err, &derr) {
		return derr.Message
	}
	return diagnosis.UpstreamFailure(err).Message
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Errorw("Request failed", "request_id", requestIDFrom(r.Context()), "path", r.URL.Path, "error", err)
	} else {
		s.logger.Infow("Request rejected", "request_id", requestIDFrom(r.Context()), "path", r.URL.Path, "reason", err.Error())
	}
	writeJSON(w, status, errorResponse{Detail: detailFor(err)})
}
