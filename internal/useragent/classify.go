package useragent

import (
	"strings"

	"shortlink/internal/model"

	ua "github.com/mssola/useragent"
)

// Categories reported for device types
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	Unknown       = "unknown"
)

// Classify maps a raw user-agent string to device, OS and browser
// categories. It never fails: unrecognised fields fall back to the parsed
// name or to "unknown".
func Classify(raw string) model.Agent {
	if strings.TrimSpace(raw) == "" {
		return model.Agent{Device: Unknown, OS: Unknown, Browser: Unknown}
	}

	parsed := ua.New(raw)
	lower := strings.ToLower(raw)

	return model.Agent{
		Device:  device(parsed, lower),
		OS:      operatingSystem(parsed, lower),
		Browser: browser(parsed),
	}
}

func device(parsed *ua.UserAgent, lower string) string {
	switch {
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"):
		return DeviceTablet
	case strings.Contains(lower, "android") && !strings.Contains(lower, "mobile"):
		return DeviceTablet
	case parsed.Mobile(), strings.Contains(lower, "iphone"), strings.Contains(lower, "mobile"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

func operatingSystem(parsed *ua.UserAgent, lower string) string {
	name := parsed.OSInfo().Name
	probe := strings.ToLower(name) + " " + lower

	// Order matters: iOS strings mention "Mac OS X" and Android ones mention Linux.
	switch {
	case strings.Contains(probe, "iphone"), strings.Contains(probe, "ipad"),
		strings.Contains(probe, "ipod"), strings.Contains(strings.ToLower(name), "ios"):
		return "iOS"
	case strings.Contains(probe, "windows"):
		return "Windows"
	case strings.Contains(probe, "android"):
		return "Android"
	case strings.Contains(probe, "mac"):
		return "macOS"
	case strings.Contains(probe, "linux"):
		return "Linux"
	case name != "":
		return name
	default:
		return Unknown
	}
}

func browser(parsed *ua.UserAgent) string {
	name, _ := parsed.Browser()
	lower := strings.ToLower(name)

	switch {
	case lower == "":
		return Unknown
	case strings.Contains(lower, "edge"):
		return "Edge"
	case strings.Contains(lower, "opera"), strings.Contains(lower, "opr"):
		return "Opera"
	case strings.Contains(lower, "chrome"):
		return "Chrome"
	case strings.Contains(lower, "firefox"):
		return "Firefox"
	case strings.Contains(lower, "safari"):
		return "Safari"
	default:
		return name
	}
}
