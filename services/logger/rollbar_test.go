package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), core.NewTestConfig())

	usr := user.User{ID: "u1", Username: "ada", Email: "ada@example.com"}
	logger.Error("failed", errors.New("boom"), usr, map[string]interface{}{"week": 3})
	assert.Contains(t, buf.String(), "failed\n")
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "week:3")

	buf.Reset()
	logger.Info("digest sent")
	assert.Equal(t, "digest sent\n", buf.String())
}

func Test_personName(t *testing.T) {
	assert.Equal(t, "ada", personName(user.User{Name: "Ada Lovelace", Username: "ada"}))
	assert.Equal(t, "Grace Hopper", personName(user.User{Name: "Grace Hopper", Email: "grace@gvsd.org"}))
}
