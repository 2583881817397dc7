package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-autovalidate/internal/logging"
	"github.com/goliatone/go-autovalidate/pkg/testsupport"
)

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := logging.New(logging.FormatJSON, slog.LevelDebug, buf)
	require.NoError(t, err)

	el := &testsupport.Element{Tag: "input", Attrs: map[string]string{"name": "email"}}
	log.Debug("validated", logging.Element(el), logging.Kind("required"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validated", entry["msg"])
	assert.Equal(t, "required", entry["kind"])
	assert.Equal(t, map[string]any{"tag": "input", "name": "email"}, entry["element"])

	_, err = logging.New("xml", slog.LevelInfo, buf)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("loud"))
}

func TestAttrHelpers(t *testing.T) {
	assert.True(t, logging.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logging.Element(nil).Equal(slog.Attr{}))

	err := errors.New("boom")
	assert.Equal(t, err, logging.Error(err).Value.Any())
}
