package device

import (
	"net/http"
	"net/url"
	"strings"
)

// PluginBase is the path prefix for the panel plugin's endpoints.
const PluginBase = "/api/plugin/lui"

// PushPath is where the printer serves the push-event websocket.
const PushPath = PluginBase + "/push"

// Route is the HTTP method and path behind a command.
type Route struct {
	Method string
	Path   string
}

// Routes maps every command to its endpoint.
var Routes = map[string]Route{
	CmdLockStatus:      {http.MethodGet, PluginBase + "/printer/security/local_lock"},
	CmdUnlock:          {http.MethodPost, PluginBase + "/printer/security/local_lock/unlock"},
	CmdImmediateLock:   {http.MethodPost, PluginBase + "/printer/security/local_lock/immediate_lock"},
	CmdAutoLockOn:      {http.MethodPost, PluginBase + "/printer/security/auto_local_lock/on"},
	CmdAutoLockOff:     {http.MethodPost, PluginBase + "/printer/security/auto_local_lock/off"},
	CmdInvalidUnlock:   {http.MethodPost, PluginBase + "/printer/security/local_lock/invalid_unlock"},
	CmdRestartService:  {http.MethodPost, "/api/system/commands/core/restart"},
	CmdReboot:          {http.MethodPost, "/api/system/commands/core/reboot"},
	CmdShutdown:        {http.MethodPost, "/api/system/commands/core/shutdown"},
	CmdPrinterState:    {http.MethodGet, "/api/printer"},
	CmdSettings:        {http.MethodGet, PluginBase + "/settings"},
	CmdSaveSettings:    {http.MethodPost, PluginBase + "/settings"},
	CmdAutoShutdownOn:  {http.MethodPost, PluginBase + "/printer/auto_shutdown/on"},
	CmdAutoShutdownOff: {http.MethodPost, PluginBase + "/printer/auto_shutdown/off"},
}

// PushURL derives the push websocket URL from the device base URL:
// http://printer:5000 becomes ws://printer:5000/api/plugin/lui/push.
func PushURL(deviceURL string) (string, error) {
	u, err := url.Parse(deviceURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + PushPath
	u.RawQuery = ""
	return u.String(), nil
}
