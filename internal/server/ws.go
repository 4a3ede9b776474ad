package server

import (
	"PetAIBackend/internal/service/diagnosis"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

// wsRequest один кадр запроса. Image: base64 без префикса data:.
type wsRequest struct {
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type wsResponse struct {
	Diagnosis string `json:"diagnosis,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Status    int    `json:"status"`
}

// handleWS обслуживает WebSocket: каждый текстовый кадр является независимым запросом диагностики.
// Состояние диалога между кадрами не хранится. Разрыв соединения отменяет текущий запрос к модели.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		s.logger.Warnw("WebSocket upgrade failed", "request_id", requestIDFrom(r.Context()), "error", err)
		return
	}
	defer conn.Close()

	// base64 раздувает данные на треть
	conn.SetReadLimit(s.cfg.Server.MaxUploadBytes*4/3 + 4096)

	// Контекст соединения: контекст запроса после hijack не отменяется при разрыве
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	frames := make(chan []byte)
	go s.readWSFrames(ctx, cancel, conn, frames)

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-frames:
			resp := s.handleWSFrame(ctx, data)
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(resp); err != nil {
				s.logger.Warnw("WebSocket write failed", "request_id", requestIDFrom(ctx), "error", err)
				return
			}
		}
	}
}

// readWSFrames читает текстовые кадры, пока соединение живо, и отменяет ctx при ошибке чтения.
func (s *Server) readWSFrames(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, frames chan<- []byte) {
	defer cancel()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Infow("WebSocket closed", "request_id", requestIDFrom(ctx), "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		select {
		case frames <- data:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) handleWSFrame(ctx context.Context, data []byte) wsResponse {
	var frame wsRequest
	if err := json.Unmarshal(data, &frame); err != nil {
		return s.wsError(ctx, diagnosis.InvalidRequest(msgMalformed))
	}

	req := diagnosis.Request{Description: frame.Description}
	if frame.Image != "" {
		raw, err := base64.StdEncoding.DecodeString(frame.Image)
		if err != nil {
			return s.wsError(ctx, diagnosis.InvalidRequest("Image must be base64 encoded."))
		}
		req.Image = &diagnosis.Image{Data: raw, ContentType: frame.ContentType}
	}

	resp, err := s.svc.Diagnose(ctx, req)
	if err != nil {
		return s.wsError(ctx, err)
	}
	return wsResponse{Diagnosis: resp.Diagnosis, Status: http.StatusOK}
}

func (s *Server) wsError(ctx context.Context, err error) wsResponse {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Errorw("WebSocket request failed", "request_id", requestIDFrom(ctx), "error", err)
	}
	return wsResponse{Detail: detailFor(err), Status: status}
}
