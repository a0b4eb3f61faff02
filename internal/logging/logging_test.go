package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dshills/plantdx/internal/config"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.LogConfig
		verbose bool
		debug   bool
		info    bool
	}{
		{"default", config.LogConfig{}, false, false, true},
		{"info console", config.LogConfig{Level: "info", Format: "console"}, false, false, true},
		{"warn json", config.LogConfig{Level: "warn", Format: "json"}, false, false, false},
		{"debug", config.LogConfig{Level: "debug"}, false, true, true},
		{"verbose wins", config.LogConfig{Level: "error"}, true, true, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l, err := New(c.cfg, c.verbose)
			require.NoError(t, err)
			assert.Equal(t, c.debug, l.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, c.info, l.Core().Enabled(zap.InfoLevel))
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
	_, err = New(config.LogConfig{Format: "xml"}, false)
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
