// Package useragent classifies raw User-Agent strings into the coarse
// device and platform buckets used by the analytics aggregator. Derived
// values are always computed server-side; the client never supplies them.
package useragent

import "strings"

// Device types.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// Platforms.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformWindows = "windows"
	PlatformMacOS   = "macos"
	PlatformLinux   = "linux"
	PlatformUnknown = "unknown"
)

// Parse classifies a User-Agent string. Platform checks are ordered:
// android and ios must run before the generic OS checks because an iPad UA
// also contains "mac" fragments and Android UAs contain "linux".
func Parse(ua string) (deviceType, platform string) {
	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "mobile") || strings.Contains(lower, "android") ||
		strings.Contains(lower, "iphone") || strings.Contains(lower, "ipod"):
		deviceType = DeviceMobile
	case strings.Contains(lower, "tablet") || strings.Contains(lower, "ipad"):
		deviceType = DeviceTablet
	default:
		deviceType = DeviceDesktop
	}

	switch {
	case strings.Contains(lower, "android"):
		platform = PlatformAndroid
	case strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad") || strings.Contains(lower, "ipod"):
		platform = PlatformIOS
	case strings.Contains(lower, "windows"):
		platform = PlatformWindows
	case strings.Contains(lower, "mac os") || strings.Contains(lower, "macos") || strings.Contains(lower, "macintosh"):
		platform = PlatformMacOS
	case strings.Contains(lower, "linux"):
		platform = PlatformLinux
	default:
		platform = PlatformUnknown
	}

	return deviceType, platform
}
