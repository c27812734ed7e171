package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validNotice() service.Notice {
	return service.Notice{
		RecipientEmail: "ann@example.org",
		VolunteerName:  "Ann",
		Reason:         "Capacity reached",
		NGOName:        "Green Earth",
	}
}

func TestNotificationService_Validation(t *testing.T) {
	ctx := context.Background()
	mailer := new(MockMailer)
	svc := service.NewNotificationService(mailer)

	cases := []struct {
		name   string
		kind   service.NoticeKind
		mutate func(n *service.Notice)
	}{
		{"missing email", service.NoticeOrgRejection, func(n *service.Notice) { n.RecipientEmail = "" }},
		{"missing name", service.NoticeOrgRejection, func(n *service.Notice) { n.VolunteerName = " " }},
		{"missing reason", service.NoticeRemoval, func(n *service.Notice) { n.Reason = "" }},
		{"missing ngo", service.NoticeRemoval, func(n *service.Notice) { n.NGOName = "" }},
		{"event title required for event rejection", service.NoticeEventRejection, func(n *service.Notice) {}},
		{"bad email", service.NoticeOrgRejection, func(n *service.Notice) { n.RecipientEmail = "not-an-email" }},
		{"display name form is not accepted", service.NoticeOrgRejection, func(n *service.Notice) { n.RecipientEmail = "Ann <ann@example.org>" }},
		{"too long", service.NoticeOrgRejection, func(n *service.Notice) { n.RecipientEmail = strings.Repeat("a", 250) + "@example.org" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n := validNotice()
			c.mutate(&n)
			_, err := svc.Send(ctx, c.kind, n)
			assert.True(t, domain.IsValidation(err), "%v", err)
		})
	}
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotificationService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Sanitizes HTML and returns message id", func(t *testing.T) {
		mailer := new(MockMailer)
		svc := service.NewNotificationService(mailer)

		n := validNotice()
		n.EventTitle = "Beach cleanup"
		n.Reason = `Full <script>alert("x")</script>`
		mailer.On("Send", ctx, mock.MatchedBy(func(m *service.Message) bool {
			return m.To == "ann@example.org" &&
				strings.Contains(m.Subject, "Beach cleanup") &&
				!strings.Contains(m.HTML, "<script>") &&
				strings.Contains(m.Text, "Reason: Full")
		})).Return("<abc@example.org>", nil)

		d, err := svc.Send(ctx, service.NoticeEventRejection, n)
		require.NoError(t, err)
		assert.Equal(t, "<abc@example.org>", d.MessageID)
		assert.Equal(t, "ann@example.org", d.Recipient)
		mailer.AssertExpectations(t)
	})

	t.Run("Relay failure is a delivery error", func(t *testing.T) {
		mailer := new(MockMailer)
		svc := service.NewNotificationService(mailer)
		mailer.On("Send", ctx, mock.Anything).Return("", errors.New("connection refused"))

		_, err := svc.Send(ctx, service.NoticeRemoval, validNotice())
		require.Error(t, err)
		assert.True(t, service.IsDeliveryError(err))
		assert.False(t, domain.IsValidation(err))
	})
}

func TestSendGridMailer(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("X-Message-Id", "sg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	m := service.NewSendGridMailer("test-key", server.URL, "noreply@ngo.org", "NGO Admin")
	id, err := m.Send(context.Background(), &service.Message{To: "ann@example.org", ToName: "Ann", Subject: "Hi", Text: "plain", HTML: "<p>html</p>"})
	require.NoError(t, err)
	assert.Equal(t, "sg-123", id)
	assert.Equal(t, "Hi", body["subject"])
}

func TestSendGridMailer_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer server.Close()

	m := service.NewSendGridMailer("bad", server.URL, "noreply@ngo.org", "NGO Admin")
	_, err := m.Send(context.Background(), &service.Message{To: "ann@example.org", Subject: "Hi", Text: "plain"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
