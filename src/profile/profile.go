// Package profile resolves connection handshake metadata into a DeviceProfile.
//
// Resolution is a pure function over untrusted, client-supplied strings. It
// must never fail: absence of information degrades to "Unknown" fields so
// that a misbehaving client cannot crash the hub at registration time.
package profile

import (
	"net"
	"regexp"
	"strings"

	"github.com/CardinalApps/cardinal-web-server/src/types"
	"github.com/mileusna/useragent"
)

const unknown = "Unknown"

// mediaClientApps are the content-playing applications. They share one
// functional role with respect to publish permissions.
var mediaClientApps = []string{
	types.AppNameMusic,
	types.AppNamePhotos,
	types.AppNameCinema,
	types.AppNameBooks,
}

// versionPatterns extract the version a desktop app embeds in its
// User-Agent, e.g. "cardinalmusic/1.4.0".
var versionPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, app := range append([]string{types.AppNameServer}, mediaClientApps...) {
		versionPatterns[app] = regexp.MustCompile(regexp.QuoteMeta(app) + `/(\S+)`)
	}
}

// Resolve inspects the handshake metadata of a new connection and returns
// its DeviceProfile. The profile is best-effort and advisory except for
// Role, which drives the hub's publish permissions.
func Resolve(meta types.ConnMeta) types.DeviceProfile {
	p := types.DeviceProfile{
		Role:       types.RoleUnknown,
		AppName:    unknown,
		AppVersion: unknown,
		Client:     clientInfo(meta),
	}

	ua := meta.UserAgent

	if strings.Contains(ua, types.AppNameServer) {
		p.Role = types.RoleServer
		p.AppName = types.AppNameServer
		p.AppVersion = appVersion(types.AppNameServer, ua)
	} else if app := matchMediaClient(ua); app != "" {
		p.Role = types.RoleMediaClient
		p.AppName = app
		p.AppVersion = appVersion(app, ua)
	} else if !strings.Contains(strings.ToLower(ua), "electron") {
		// Plain web browsers don't declare an app identifier. If the
		// request did not come from the desktop shell that embeds the
		// server, the URL path tells us which web app connected.
		if strings.Contains(meta.Path, "music") {
			p.Role = types.RoleMediaClient
			p.AppName = types.AppNameMusic
			p.AppVersion = "Web"
		}
	}

	return p
}

func matchMediaClient(ua string) string {
	for _, app := range mediaClientApps {
		if strings.Contains(ua, app) {
			return app
		}
	}
	return ""
}

func appVersion(app, ua string) string {
	m := versionPatterns[app].FindStringSubmatch(ua)
	if m == nil {
		return unknown
	}
	return "v." + m[1]
}

func clientInfo(meta types.ConnMeta) types.ClientInfo {
	info := types.ClientInfo{UserAgent: meta.UserAgent}

	if host, port, err := net.SplitHostPort(meta.RemoteAddr); err == nil {
		info.IP = host
		info.Port = port
	} else {
		info.IP = meta.RemoteAddr
	}

	agent := useragent.Parse(meta.UserAgent)
	info.Browser = agent.Name
	info.BrowserVersion = agent.Version
	info.OS = agent.OS
	info.OSVersion = agent.OSVersion
	info.Device = agent.Device
	info.Mobile = agent.Mobile || agent.Tablet

	return info
}
