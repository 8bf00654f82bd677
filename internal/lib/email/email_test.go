package email

import (
	"context"
	"errors"
	"testing"

	"github.com/elanurleylek/robosphere-sub000/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email_1"}, nil
}

func newTestClient(s sender) *Client {
	logger := zerolog.Nop()
	return &Client{emails: s, from: "Robosphere <hello@robosphere.dev>", logger: &logger}
}

func TestRender_Welcome(t *testing.T) {
	html, err := Render(TemplateWelcome, PreviewData[TemplateWelcome])
	require.NoError(t, err)
	assert.Contains(t, html, "Welcome aboard, Ada!")
}

func TestRender_EscapesData(t *testing.T) {
	html, err := Render(TemplateWelcome, map[string]string{"UserName": "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}

func TestSendWelcomeEmail(t *testing.T) {
	fake := &fakeSender{}
	c := newTestClient(fake)

	require.NoError(t, c.SendWelcomeEmail(context.Background(), "ada@example.com", "Ada"))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, fake.sent[0].To)
	assert.Equal(t, "Robosphere <hello@robosphere.dev>", fake.sent[0].From)
	assert.Contains(t, fake.sent[0].Html, "Ada")
}

func TestSendEmail_ProviderError(t *testing.T) {
	c := newTestClient(&fakeSender{err: errors.New("rate limited")})
	err := c.SendWelcomeEmail(context.Background(), "ada@example.com", "Ada")
	assert.ErrorContains(t, err, "rate limited")
}

func TestNewClient_WithoutKeyDropsMail(t *testing.T) {
	logger := zerolog.Nop()
	c := NewClient(&config.Config{}, &logger)
	assert.Nil(t, c.emails)
	assert.NoError(t, c.SendWelcomeEmail(context.Background(), "ada@example.com", "Ada"))
}
