package model

// KnownPlatforms lists the platforms the backend can publish to, in display order.
var KnownPlatforms = []string{"devto", "twitter", "linkedin"}

var platformNames = map[string]string{
	"devto":    "Dev.to",
	"twitter":  "Twitter",
	"linkedin": "LinkedIn",
}

// PlatformName returns the display name, or the key itself when unknown.
func PlatformName(key string) string {
	if n, ok := platformNames[key]; ok {
		return n
	}
	return key
}

func IsKnownPlatform(key string) bool {
	_, ok := platformNames[key]
	return ok
}
