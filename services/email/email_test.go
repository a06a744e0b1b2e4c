package emailsvc

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	testutil "github.com/2023UCA1802/Infosys-Study-AI-Recommender/tests"
)

func newMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Name: "Alice", Address: "alice@x.com"}, {Address: "bob@x.com"}},
		Subject: "Hello",
		BodyStr: "plain body",
	}
}

func TestBuildMIME(t *testing.T) {
	msg := &core.EmailMessage{
		To:          []mail.Address{{Name: "Alice", Address: "alice@x.com"}},
		TextContent: "text body",
		HTMLContent: "<p>html body</p>",
	}
	from := mail.Address{Name: "StudyAI", Address: "noreply@localhost"}

	b, err := buildMIME(from, "[StudyAI] Héllo", msg)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(b)))
	require.NoError(t, err)
	assert.Equal(t, `"StudyAI" <noreply@localhost>`, parsed.Header.Get("From"))
	assert.Equal(t, `"Alice" <alice@x.com>`, parsed.Header.Get("To"))
	assert.Equal(t, "1.0", parsed.Header.Get("MIME-Version"))

	subj, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "[StudyAI] Héllo", subj)
	assert.True(t, strings.HasPrefix(parsed.Header.Get("Content-Type"), "multipart/alternative; boundary="))

	body, err := io.ReadAll(parsed.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "text body")
	assert.Contains(t, string(body), "<p>html body</p>")

	msg.HTMLContent = ""
	b, err = buildMIME(from, "Hello", msg)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "text/html")
}

func TestConsoleServiceMock(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleServiceMock(conf)
	ctx := context.Background()

	require.NoError(t, svc.SendMessage(ctx, newMessage()))
	require.NoError(t, svc.SendMessage(ctx, &core.EmailMessage{Subject: "nobody", BodyStr: "lost"}))

	sent := svc.SentMessages()
	require.Len(t, sent, 2)
	assert.Equal(t, "plain body", sent[0].TextContent)

	msg, ok := svc.LastMessage("bob@x.com")
	require.True(t, ok)
	assert.Equal(t, "Hello", msg.Subject)
	_, ok = svc.LastMessage("carol@x.com")
	assert.False(t, ok)

	svc.FailWith(errors.New("down"))
	assert.Error(t, svc.SendMessage(ctx, newMessage()))
	assert.Len(t, svc.SentMessages(), 2)

	svc.Reset()
	assert.NoError(t, svc.SendMessage(ctx, newMessage()))
	assert.Len(t, svc.SentMessages(), 1)
}

func TestSMTPService(t *testing.T) {
	defer func(f func(context.Context, *gomail.Client, ...*gomail.Msg) error) { dialAndSend = f }(dialAndSend)

	conf := core.NewTestConfig()
	conf.Email.SMTPHost = "smtp.x.com"
	conf.Email.SMTPPort = 587
	conf.Email.SMTPUser = "mailer"
	conf.Email.SMTPPassword = "pwd"
	svc := NewSMTPService(conf, testutil.NopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		gotCtx  context.Context
		gotFrom string
		gotTo   []string
		gotBody strings.Builder
	)
	dialAndSend = func(ctx context.Context, c *gomail.Client, msgs ...*gomail.Msg) error {
		require.NotNil(t, c)
		require.Len(t, msgs, 1)
		gotCtx = ctx
		gotFrom, _ = msgs[0].GetSender(false)
		gotTo, _ = msgs[0].GetRecipients()
		gotBody.Reset()
		_, err := msgs[0].WriteTo(&gotBody)
		return err
	}
	require.NoError(t, svc.SendMessage(ctx, newMessage()))
	assert.Equal(t, ctx, gotCtx, "request context reaches the smtp dial")
	assert.Equal(t, conf.DefaultFromEmail.Address, gotFrom)
	assert.Equal(t, []string{"alice@x.com", "bob@x.com"}, gotTo)
	assert.Contains(t, gotBody.String(), "plain body")
	assert.Contains(t, gotBody.String(), "Subject: ["+conf.AppName+"] Hello")

	html := &core.EmailMessage{
		To:          []mail.Address{{Address: "alice@x.com"}},
		Subject:     "Hello",
		TextContent: "text body",
		HTMLContent: "<p>html body</p>",
	}
	require.NoError(t, svc.SendMessage(ctx, html))
	assert.Contains(t, gotBody.String(), "multipart/alternative")
	assert.Contains(t, gotBody.String(), "<p>html body</p>")

	// nothing to deliver
	gotTo = nil
	require.NoError(t, svc.SendMessage(ctx, &core.EmailMessage{BodyStr: "lost"}))
	assert.Nil(t, gotTo)

	dialAndSend = func(context.Context, *gomail.Client, ...*gomail.Msg) error {
		return errors.New("535 authentication failed")
	}
	assert.Error(t, svc.SendMessage(ctx, newMessage()))

	conf.Email.SMTPPort = 0
	sent := false
	dialAndSend = func(context.Context, *gomail.Client, ...*gomail.Msg) error {
		sent = true
		return nil
	}
	assert.Error(t, svc.SendMessage(ctx, newMessage()), "invalid port")
	assert.False(t, sent)
}

func TestSendgridService(t *testing.T) {
	defer func(h string) { host = h }(host)

	var (
		status  = http.StatusAccepted
		payload map[string]interface{}
		auth    string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		payload = nil
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(status)
	}))
	defer srv.Close()
	host = srv.URL

	conf := core.NewTestConfig()
	conf.Email.SendgridAPIKey = "sg-key"
	svc := NewSendgridService(conf, testutil.NopLogger{})
	ctx := context.Background()

	require.NoError(t, svc.SendMessage(ctx, newMessage()))
	assert.Equal(t, "Bearer sg-key", auth)
	require.NotNil(t, payload)
	perso := payload["personalizations"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "["+conf.AppName+"] Hello", perso["subject"])
	assert.Len(t, perso["to"], 2)

	status = http.StatusUnauthorized
	assert.Error(t, svc.SendMessage(ctx, newMessage()))
}

func TestNewService(t *testing.T) {
	conf := core.NewTestConfig()
	tests := map[string]interface{}{
		"":         &consoleService{},
		"console":  &consoleService{},
		"smtp":     &smtpService{},
		"sendgrid": &sendgridService{},
	}
	for provider, want := range tests {
		conf.Email.Provider = provider
		assert.IsType(t, want, NewService(conf, testutil.NopLogger{}), provider)
	}
}
