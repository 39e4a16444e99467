package emailsvc

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/mail"
	"strings"
	"sync"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	logsvc "github.com/dannygardner26/GVCS-Main-Page-sub000/services/logger"
)

type sentRequest struct {
	Personalizations []struct {
		To      []struct{ Email, Name string } `json:"to"`
		Subject string                         `json:"subject"`
	} `json:"personalizations"`
	ReplyTo *struct {
		Email string `json:"email"`
	} `json:"reply_to"`
	Categories []string `json:"categories"`
	Content    []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestSendgridService(t *testing.T) {
	conf := core.NewTestConfig()
	logs := new(strings.Builder)
	svc := NewSendgridService(conf, logsvc.NewRollbarLogger(log.New(logs, "", 0), conf)).(*sendgridService)

	var (
		reqs []rest.Request
		mu   sync.Mutex
	)
	status := 202
	svc.do = func(req rest.Request) (*rest.Response, error) {
		mu.Lock()
		defer mu.Unlock()
		reqs = append(reqs, req)
		if status == 0 {
			return nil, errors.New("connection refused")
		}
		return &rest.Response{StatusCode: status, Body: "bad request"}, nil
	}

	svc.deliver(&core.EmailMessage{Subject: "nobody", BodyStr: "hello"})
	svc.deliver(&core.EmailMessage{To: []mail.Address{{Address: "ada@test.com"}}, Subject: "empty"})
	assert.Empty(t, reqs)

	svc.deliver(&core.EmailMessage{
		To:       []mail.Address{{Name: "Ada", Address: "ada@test.com"}},
		ReplyTo:  &mail.Address{Address: "teacher@test.com"},
		Subject:  "hi",
		Category: core.MailCategoryAccount,
		BodyStr:  "hello",
	})
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v3/mail/send", strings.TrimPrefix(reqs[0].BaseURL, sendgridHost))
	assert.Equal(t, "Bearer "+conf.SendgridApiKey, reqs[0].Headers["Authorization"])

	var body sentRequest
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	require.Len(t, body.Personalizations, 1)
	assert.Equal(t, "["+conf.AppName+"] hi", body.Personalizations[0].Subject)
	assert.Equal(t, "ada@test.com", body.Personalizations[0].To[0].Email)
	assert.Equal(t, "teacher@test.com", body.ReplyTo.Email)
	assert.Equal(t, []string{core.MailCategoryAccount}, body.Categories)
	require.Len(t, body.Content, 1)
	assert.Equal(t, "text/plain", body.Content[0].Type)
	assert.Empty(t, logs.String())

	status = 400
	svc.deliver(&core.EmailMessage{To: []mail.Address{{Address: "ada@test.com"}}, Subject: "rejected", BodyStr: "x"})
	assert.Contains(t, logs.String(), "status 400")

	status = 0
	svc.deliver(&core.EmailMessage{To: []mail.Address{{Address: "ada@test.com"}}, Subject: "offline", BodyStr: "x"})
	assert.Contains(t, logs.String(), "connection refused")
}

func TestConsoleService_format(t *testing.T) {
	conf := core.NewTestConfig()
	svc := newConsoleService(conf, logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf))

	out := svc.format(core.EmailMessage{
		To:          []mail.Address{{Name: "Ada", Address: "ada@test.com"}},
		Subject:     "hi",
		Category:    core.MailCategoryDigest,
		TextContent: "plain body",
		HTMLContent: "<p>html body</p>",
	})
	assert.Contains(t, out, "To: \"Ada\" <ada@test.com>\r\n")
	assert.Contains(t, out, "Subject: ["+conf.AppName+"] hi\r\n")
	assert.Contains(t, out, "X-Category: digest\r\n")
	assert.NotContains(t, out, "Cc:")
	assert.Contains(t, out, "plain body")
	assert.Contains(t, out, "<p>html body</p>")
	assert.Less(t, strings.Index(out, "plain body"), strings.Index(out, "html body"))
}
