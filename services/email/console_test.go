package emailsvc

import (
	"io"
	"log"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	logsvc "github.com/dannygardner26/GVCS-Main-Page-sub000/services/logger"
)

func TestConsoleServiceMock(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleServiceMock(conf, logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf))
	ResetSentMessages()

	svc.SendMessages(
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hello"},
		&core.EmailMessage{To: []mail.Address{{Address: "ada@example.com"}}, Subject: "hi", BodyStr: "hello"},
	)

	require.Len(t, SentMessages, 1)
	msg, ok := LastSentMessage()
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Subject)
	assert.Equal(t, "hello", msg.TextContent)

	ResetSentMessages()
	_, ok = LastSentMessage()
	assert.False(t, ok)
}
