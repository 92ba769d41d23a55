package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EnvDefaults(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, "dev", "", "").Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	New(&buf, "prod", "", "").Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, "prod", "", "").Info("shown")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
}

func TestNew_Overrides(t *testing.T) {
	var buf bytes.Buffer

	log := New(&buf, "prod", "error", "text")
	log.Warn("dropped")
	log.Error("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.True(t, strings.Contains(out, "msg=kept"))
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, "dev", "", ""))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	FromContext(ctx).Info("tagged")

	assert.Contains(t, buf.String(), "request_id=req-42")
}
