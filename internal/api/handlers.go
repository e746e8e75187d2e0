package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nortsur/orderbot/internal/models"
)

func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.verifyWebhook(w, r)
	case http.MethodPost:
		s.receiveWebhook(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		slog.Warn("Server.webhookHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// verifyWebhook answers the Meta webhook verification handshake: the
// challenge is echoed back as plain text only when the mode and token match.
func (s *Server) verifyWebhook(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode != "subscribe" || s.opts.VerifyToken == "" || token != s.opts.VerifyToken {
		slog.Warn("Server.verifyWebhook: verification rejected", "mode", mode)
		w.WriteHeader(http.StatusForbidden)
		return
	}

	slog.Info("Server.verifyWebhook: webhook verified")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(challenge)); err != nil {
		slog.Error("Server.verifyWebhook: failed to write challenge", "error", err)
	}
}

// receiveWebhook accepts a message delivery. The delivery is acknowledged
// with 200 regardless of its content: Meta retries non-2xx responses, and a
// retry of a payload we cannot process will not fare any better.
func (s *Server) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}

	var payload models.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("Server.receiveWebhook: failed to decode payload", "error", err)
		writeJSONResponse(w, http.StatusOK, models.Ignored())
		return
	}

	msgs := payload.InboundMessages()
	if len(msgs) == 0 {
		slog.Debug("Server.receiveWebhook: no processable messages in delivery")
		writeJSONResponse(w, http.StatusOK, models.Ignored())
		return
	}

	// Each message is handled on its own goroutine so one slow backend
	// call cannot delay the acknowledgement or other senders.
	for _, msg := range msgs {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.opts.HandleTimeout)
			defer cancel()
			s.handler.Handle(ctx, msg)
		}()
	}

	slog.Debug("Server.receiveWebhook: delivery accepted", "messages", len(msgs))
	writeJSONResponse(w, http.StatusOK, models.Ok())
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
