package core

import (
	htmltmpl "html/template"
	"net/mail"
	"testing"
	texttmpl "text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failLogger fails the test on any error-level log.
type failLogger struct{ t *testing.T }

func (l failLogger) Debug(string, ...interface{}) {}
func (l failLogger) Info(string, ...interface{})  {}
func (l failLogger) Warn(string, ...interface{})  {}
func (l failLogger) Error(msg string, _ ...interface{}) {
	l.t.Errorf("unexpected error log: %s", msg)
}
func (l failLogger) Fatal(msg string, _ ...interface{}) {
	l.t.Errorf("unexpected fatal log: %s", msg)
}

func TestParseEmailTemplates(t *testing.T) {
	ParseEmailTemplates(failLogger{t}, true)

	entry, ok := templates["otp"]
	require.True(t, ok, "otp template not registered")
	assert.IsType(t, &texttmpl.Template{}, entry[".txt"])
	assert.IsType(t, &htmltmpl.Template{}, entry[".gohtml"])

	for name := range templates {
		assert.NotEqual(t, '_', rune(name[0]), "base template %q registered as a message", name)
	}
}

func TestEmailMessage_Render(t *testing.T) {
	conf := &Config{AppName: "StudyAI", FrontendBaseURL: "http://localhost:3000", TestMode: true}
	data := struct {
		Code    string
		Purpose string
		Minutes int
	}{Code: "482913", Purpose: "reset", Minutes: 5}

	t.Run("templated", func(t *testing.T) {
		msg := &EmailMessage{
			To:           []mail.Address{{Address: "a@x.com"}},
			Subject:      "Code",
			TemplateName: "otp",
			TemplateData: data,
		}
		require.NoError(t, msg.Render(conf))
		assert.Contains(t, msg.TextContent, "Your verification code is: 482913")
		assert.Contains(t, msg.TextContent, "reset your password")
		assert.Contains(t, msg.HTMLContent, "482913")
		assert.True(t, msg.HasContent())
	})

	t.Run("plain body", func(t *testing.T) {
		msg := &EmailMessage{BodyStr: "hello"}
		require.NoError(t, msg.Render(conf))
		assert.Equal(t, "hello", msg.TextContent)
		assert.Empty(t, msg.HTMLContent)
	})

	t.Run("unknown template", func(t *testing.T) {
		msg := &EmailMessage{TemplateName: "nope"}
		err := msg.Render(conf)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}
