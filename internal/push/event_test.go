package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Event
		wantErr bool
	}{
		{
			name: "locked",
			raw:  `{"plugin":"lui","data":{"type":"local_lock_locked"}}`,
			want: Event{Plugin: "lui", Type: TypeLocalLockLocked},
		},
		{
			name: "timer keeps raw payload",
			raw:  `{"plugin":"lui","data":{"type":"local_invalid_unlock_timer","data":{"timer":12}}}`,
			want: Event{Plugin: "lui", Type: TypeInvalidUnlockTimer, Data: []byte(`{"timer":12}`)},
		},
		{
			name: "foreign plugin still decodes",
			raw:  `{"plugin":"other","data":{"type":"local_lock_locked"}}`,
			want: Event{Plugin: "other", Type: TypeLocalLockLocked},
		},
		{name: "not json", raw: `{"plugin":`, wantErr: true},
		{name: "no type", raw: `{"plugin":"lui","data":{}}`, wantErr: true},
		{name: "data is a string", raw: `{"plugin":"lui","data":"nope"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Plugin, got.Plugin)
			assert.Equal(t, tt.want.Type, got.Type)
			if tt.want.Data != nil {
				assert.JSONEq(t, string(tt.want.Data), string(got.Data))
			}
		})
	}
}

func TestEvent_Payloads(t *testing.T) {
	ev, err := Decode([]byte(`{"plugin":"lui","data":{"type":"local_invalid_unlock_timer","data":{"timer":25}}}`))
	require.NoError(t, err)
	n, err := ev.Timer()
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	ev, err = Decode([]byte(`{"plugin":"lui","data":{"type":"auto_local_lock_toggle","data":{"data":true}}}`))
	require.NoError(t, err)
	on, err := ev.Toggle()
	require.NoError(t, err)
	assert.True(t, on)

	_, err = Event{Type: TypeInvalidUnlockTimer}.Timer()
	assert.Error(t, err, "missing payload")

	_, err = Event{Type: TypeAutoLocalLockToggle, Data: []byte(`{"data":"yes"}`)}.Toggle()
	assert.Error(t, err, "wrong payload type")
}

func TestEncode_RoundTrip(t *testing.T) {
	raw, err := Encode(TypeInvalidUnlockTimer, TimerPayload{Timer: 7})
	require.NoError(t, err)

	ev, err := Decode(raw)
	require.NoError(t, err)
	assert.True(t, ev.Ours())
	n, err := ev.Timer()
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	raw, err = Encode(TypePowerButtonPressed, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"plugin":"lui","data":{"type":"powerbutton_pressed"}}`, string(raw))
}
