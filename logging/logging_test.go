package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()

	require.NoError(t, Configure(log, &buf, "warn", "json"))
	log.Info("hidden")
	log.WithField("case_type", "employment").Warn("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "employment", entry["case_type"])
	assert.Equal(t, "warning", entry["level"])
}

func TestConfigure_Text(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()

	require.NoError(t, Configure(log, &buf, "debug", ""))
	log.Debug("details")
	assert.Contains(t, buf.String(), "msg=details")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestConfigure_Errors(t *testing.T) {
	log := logrus.New()
	assert.Error(t, Configure(log, &bytes.Buffer{}, "loud", "json"))
	assert.Error(t, Configure(log, &bytes.Buffer{}, "info", "xml"))
}

func TestComponent(t *testing.T) {
	assert.Equal(t, "service", Component("service").Data["component"])
}
