package email

import (
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (r *recordingSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.sent = append(r.sent, params)
	return &resend.SendEmailResponse{Id: "test"}, nil
}

func TestRenderPreviewData(t *testing.T) {
	for name, data := range PreviewData {
		body, err := Render(name, data)
		require.NoError(t, err, name)
		assert.Contains(t, body, "Quarterly planning")
		assert.Contains(t, body, "2030-05-01 09:30 UTC")
		assert.Contains(t, body, "Room 4")
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	body, err := Render(TemplateMeetingInvitation, map[string]string{
		"ParticipantName": "<script>alert(1)</script>",
		"MeetingTitle":    "Sync",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "To be scheduled")
}

func TestSendMeetingInvitation(t *testing.T) {
	logger := zerolog.Nop()
	sender := &recordingSender{}
	client := NewClientWithSender(sender, "Calendar <calendar@example.com>", &logger)

	err := client.SendMeetingInvitation(Invitation{
		To:              "alice@example.com",
		ParticipantName: "Alice",
		MeetingTitle:    "Retro",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sender.sent[0].To)
	assert.Equal(t, "Invitation: Retro", sender.sent[0].Subject)
	assert.Equal(t, "Calendar <calendar@example.com>", sender.sent[0].From)
	assert.Contains(t, sender.sent[0].Html, "Hi Alice")

	sender.err = errors.New("rate limited")
	assert.Error(t, client.SendMeetingInvitation(Invitation{To: "bob@example.com", MeetingTitle: "Retro"}))
}

func TestSendWithoutSenderSkips(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClientWithSender(nil, defaultFrom, &logger)
	assert.NoError(t, client.SendMeetingInvitation(Invitation{To: "alice@example.com", MeetingTitle: "Retro"}))
}
