package logsvc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examally/examally/core/user"
)

func TestRollbarLogger_write(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *RollbarLogger)
		want map[string]interface{}
	}{
		{
			name: "error with user",
			log: func(l *RollbarLogger) {
				l.Error("creating exam", errors.New("boom"), user.User{ID: "u1", Email: "ada@test.io"})
			},
			want: map[string]interface{}{"level": "error", "message": "creating exam", "error": "boom", "user_id": "u1"},
		},
		{
			name: "extra fields",
			log: func(l *RollbarLogger) {
				l.Info("dispatched", map[string]interface{}{"kind": "mark_update"})
			},
			want: map[string]interface{}{"level": "info", "message": "dispatched", "kind": "mark_update"},
		},
		{
			name: "debug is filtered",
			log:  func(l *RollbarLogger) { l.Debug("noise") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := &RollbarLogger{zl: zerolog.New(&buf).Level(zerolog.InfoLevel)}
			tt.log(l)

			if tt.want == nil {
				assert.Empty(t, buf.String())
				return
			}
			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			for k, v := range tt.want {
				assert.Equal(t, v, got[k], k)
			}
		})
	}
}
