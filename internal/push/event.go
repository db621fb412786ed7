// Package push receives the printer's server-pushed events.
//
// Frames arrive on a websocket as
//
//	{"plugin": "lui", "data": {"type": "local_lock_locked", "data": {...}}}
//
// Decode turns a frame into an Event; Listener keeps the connection up and
// hands events to a callback. Routing events to the lock controller and the
// flyout coordinator is the navigation package's job.
package push

import (
	"encoding/json"
	"fmt"
)

// Plugin is the plugin identifier the panel listens to. Frames for other
// plugins are ignored.
const Plugin = "lui"

// Event types sent by the printer.
const (
	TypePowerButtonPressed  = "powerbutton_pressed"
	TypeLocalLockLocked     = "local_lock_locked"
	TypeLocalLockUnlocked   = "local_lock_unlocked"
	TypeAutoLocalLockToggle = "auto_local_lock_toggle"
	TypeInvalidUnlockTimer  = "local_invalid_unlock_timer"
	TypeInvalidUnlockReset  = "local_invalid_unlock_reset"
)

// Event is one decoded push frame.
type Event struct {
	Plugin string
	Type   string
	Data   json.RawMessage
}

// TimerPayload is the data of local_invalid_unlock_timer.
type TimerPayload struct {
	Timer int `json:"timer"`
}

// TogglePayload is the data of auto_local_lock_toggle.
type TogglePayload struct {
	Data bool `json:"data"`
}

type frame struct {
	Plugin string `json:"plugin"`
	Data   struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data,omitempty"`
	} `json:"data"`
}

// Decode parses a raw frame. It fails on invalid JSON or a missing type;
// unknown types and foreign plugins decode fine and are left to the caller.
func Decode(raw []byte) (Event, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Event{}, fmt.Errorf("malformed push frame: %w", err)
	}
	if f.Data.Type == "" {
		return Event{}, fmt.Errorf("push frame has no type")
	}
	return Event{Plugin: f.Plugin, Type: f.Data.Type, Data: f.Data.Data}, nil
}

// Encode builds a frame for the lui plugin. payload may be nil.
func Encode(eventType string, payload interface{}) ([]byte, error) {
	var f frame
	f.Plugin = Plugin
	f.Data.Type = eventType
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		f.Data.Data = data
	}
	return json.Marshal(f)
}

// Timer decodes a local_invalid_unlock_timer payload.
func (e Event) Timer() (int, error) {
	var p TimerPayload
	if err := e.decode(&p); err != nil {
		return 0, err
	}
	return p.Timer, nil
}

// Toggle decodes an auto_local_lock_toggle payload.
func (e Event) Toggle() (bool, error) {
	var p TogglePayload
	if err := e.decode(&p); err != nil {
		return false, err
	}
	return p.Data, nil
}

func (e Event) decode(v interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%s event has no data", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("malformed %s payload: %w", e.Type, err)
	}
	return nil
}

// Ours reports whether the event belongs to the lui plugin.
func (e Event) Ours() bool {
	return e.Plugin == Plugin
}
