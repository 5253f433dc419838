package daemon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUnit(t *testing.T) {
	tests := []struct {
		name     string
		opts     UnitOptions
		wantExec string
		wantErr  bool
	}{
		{
			name:     "root only",
			opts:     UnitOptions{ExecPath: "/usr/local/bin/ntccal", ConfigPath: "/etc/ntccal.json", SocketPath: "/var/run/ntccal.sock"},
			wantExec: "ExecStart=/usr/local/bin/ntccal daemon --config=/etc/ntccal.json --daemon-socket=/var/run/ntccal.sock\n",
		},
		{
			name:     "non-root allowed",
			opts:     UnitOptions{ExecPath: "/opt/ntccal", ConfigPath: "/etc/n.json", SocketPath: "/run/n.sock", AllowNonRoot: true},
			wantExec: "ExecStart=/opt/ntccal daemon --config=/etc/n.json --daemon-socket=/run/n.sock --always-allow-non-root-access\n",
		},
		{
			name:    "missing socket",
			opts:    UnitOptions{ExecPath: "/opt/ntccal", ConfigPath: "/etc/n.json"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderUnit(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantExec)
			assert.True(t, strings.HasPrefix(got, "[Unit]\n"))
			assert.Contains(t, got, "ExecReload=/bin/kill -HUP $MAINPID\n")
			assert.Contains(t, got, "WantedBy=multi-user.target\n")
		})
	}
}
