package statsd

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" submission/result ": "submission_result",
		"foo..bar":            "foo.bar",
		"guard denied":        "guard_denied",
		".":                   "",
	}
	for input, want := range tests {
		assert.Equal(t, want, normalizeMetricName(input), input)
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " recruiter "}
	local := map[string]string{"result": " ok ", "": "ignored", "env": "stage"}

	assert.Equal(t, "|#env:stage,result:ok,service:recruiter", formatTags(global, local))
	assert.Empty(t, formatTags(nil, nil))
}

func TestClient_DisabledAndNil(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)
	assert.False(t, c.Enabled())
	c.Count("x", 1, nil)
	require.NoError(t, c.Close())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	nilClient.Count("x", 1, nil)
	nilClient.Timing("x", time.Second, nil)
	require.NoError(t, nilClient.Close())
}

func TestClient_EmitsOverUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	c, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     ".recruiter.",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer c.Close()
	require.True(t, c.Enabled())

	read := func() string {
		buf := make([]byte, 512)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, readErr := pc.ReadFrom(buf)
		require.NoError(t, readErr)
		return string(buf[:n])
	}

	c.Count("submission.result", 1, map[string]string{"result": "ok"})
	assert.Equal(t, "recruiter.submission.result:1|c|#env:test,result:ok", read())

	c.Timing("submission.duration", 1500*time.Microsecond, nil)
	got := read()
	assert.True(t, strings.HasPrefix(got, "recruiter.submission.duration:1.5|ms"), got)
}
