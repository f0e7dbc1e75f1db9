package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/auth"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", TestMode: true})

	usr := auth.User{ID: "u1", Name: "Admin", Email: "admin@school.pk"}
	logger.Warn("remote api server error", errors.New("boom"), map[string]interface{}{"path": "/campus/list"}, usr)

	out := buf.String()
	assert.Contains(t, out, "[WARN] remote api server error")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "/campus/list")
	assert.NotContains(t, out, "admin@school.pk")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), &core.Config{Debug: true})

	err := errors.New("boom")
	args := logger.prepare("msg", []interface{}{err, auth.User{ID: "u1"}, auth.User{ID: "u2"}})
	assert.Equal(t, []interface{}{"msg", err}, args)
}
