package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/service"
)

// notifyResponse is the flat response shape the console's email client reads.
type notifyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
}

// NotificationHandler serves the volunteer email endpoints.
type NotificationHandler struct {
	notifier service.NotificationService
}

func NewNotificationHandler(notifier service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

func (h *NotificationHandler) send(kind service.NoticeKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		var notice service.Notice
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&notice); err != nil {
			writeJSON(w, http.StatusBadRequest, notifyResponse{Error: "Invalid JSON body"})
			return
		}

		delivery, err := h.notifier.Send(r.Context(), kind, notice)
		if err != nil {
			var verr *domain.ValidationError
			switch {
			case errors.As(err, &verr):
				writeJSON(w, http.StatusBadRequest, notifyResponse{Error: verr.Message})
			default:
				logger.Error("notification failed", "kind", kind, "error", err)
				details := err.Error()
				if cause := errors.Unwrap(err); cause != nil {
					details = cause.Error()
				}
				writeJSON(w, http.StatusInternalServerError, notifyResponse{
					Error:   "Failed to send email",
					Details: details,
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, notifyResponse{
			Success:   true,
			Message:   "Email sent successfully",
			MessageID: delivery.MessageID,
			Recipient: delivery.Recipient,
		})
	}
}

// denyNotify writes authentication failures in the notification shape.
func denyNotify(w http.ResponseWriter, r *http.Request, err error) {
	status, _, message := errorStatus(err)
	writeJSON(w, status, notifyResponse{Error: message})
}
