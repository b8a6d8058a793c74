package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 60 * time.Second}
	c := &Client{}
	WithHTTPClient(custom)(c)
	assert.Same(t, custom, c.httpClient)

	WithHTTPClient(nil)(c)
	assert.Same(t, custom, c.httpClient)
}

func TestWithTimeout(t *testing.T) {
	c := &Client{httpClient: &http.Client{Timeout: 30 * time.Second}}
	WithTimeout(5 * time.Minute)(c)
	assert.Equal(t, 5*time.Minute, c.httpClient.Timeout)

	WithTimeout(0)(c)
	assert.Equal(t, 5*time.Minute, c.httpClient.Timeout)
}

func TestWithLogger(t *testing.T) {
	logger := &testLogger{}
	c := &Client{}
	WithLogger(logger)(c)
	assert.Same(t, logger, c.logger.(*testLogger))
}

func TestWithRetryMax(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"positive", 5, 5},
		{"zero disables", 0, 0},
		{"negative ignored", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{retryMax: 3}
			WithRetryMax(tt.input)(c)
			assert.Equal(t, tt.want, c.retryMax)
		})
	}
}

func TestWithRetryWait(t *testing.T) {
	tests := []struct {
		name     string
		min, max time.Duration
		wantMin  time.Duration
		wantMax  time.Duration
	}{
		{"valid range", time.Second, 5 * time.Second, time.Second, 5 * time.Second},
		{"equal values", 2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second},
		{"zero min ignored", 0, 5 * time.Second, 0, 0},
		{"max below min ignored", 5 * time.Second, 2 * time.Second, 5 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{}
			WithRetryWait(tt.min, tt.max)(c)
			assert.Equal(t, tt.wantMin, c.retryWaitMin)
			assert.Equal(t, tt.wantMax, c.retryWaitMax)
		})
	}
}

func TestWithUserAgent(t *testing.T) {
	c := &Client{userAgent: "default"}
	WithUserAgent("custom-agent/1.0")(c)
	assert.Equal(t, "custom-agent/1.0", c.userAgent)

	WithUserAgent("")(c)
	assert.Equal(t, "custom-agent/1.0", c.userAgent)
}

type testLogger struct {
	debugs int
	infos  int
	errors int
}

func (l *testLogger) Debugf(string, ...interface{}) { l.debugs++ }
func (l *testLogger) Infof(string, ...interface{})  { l.infos++ }
func (l *testLogger) Errorf(string, ...interface{}) { l.errors++ }
