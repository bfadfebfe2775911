package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dom/spark/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelParsing(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{level: "debug", want: logrus.DebugLevel},
		{level: "WARN", want: logrus.WarnLevel},
		{level: " error ", want: logrus.ErrorLevel},
		{level: "nonsense", want: logrus.InfoLevel},
		{level: "", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := logging.NewWithOutput(tt.level, "text", &bytes.Buffer{})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput("info", "json", &buf)

	logger.WithField("chat_id", "abc").Info("chat created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "chat created", entry["msg"])
	assert.Equal(t, "abc", entry["chat_id"])
	assert.Equal(t, "info", entry["level"])
}
