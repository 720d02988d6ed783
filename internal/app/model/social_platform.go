package model

import "strings"

// SocialPlatform describes a known platform and the URL prefix a bare handle
// is appended to.
type SocialPlatform struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Prefix string `json:"prefix"`
}

// PlatformWebsite is the catch-all for custom links; it has no prefix.
const PlatformWebsite = "website"

var socialPlatforms = []SocialPlatform{
	{Key: "instagram", Label: "Instagram", Prefix: "https://instagram.com/"},
	{Key: "facebook", Label: "Facebook", Prefix: "https://facebook.com/"},
	{Key: "x", Label: "X", Prefix: "https://x.com/"},
	{Key: "linkedin", Label: "LinkedIn", Prefix: "https://linkedin.com/in/"},
	{Key: "tiktok", Label: "TikTok", Prefix: "https://tiktok.com/@"},
	{Key: "youtube", Label: "YouTube", Prefix: "https://youtube.com/@"},
	{Key: "whatsapp", Label: "WhatsApp", Prefix: "https://wa.me/"},
	{Key: PlatformWebsite, Label: "Sitio web", Prefix: ""},
}

// SocialPlatforms returns the supported platforms in display order.
func SocialPlatforms() []SocialPlatform {
	out := make([]SocialPlatform, len(socialPlatforms))
	copy(out, socialPlatforms)
	return out
}

// LookupSocialPlatform finds a platform by key.
func LookupSocialPlatform(key string) (SocialPlatform, bool) {
	for _, p := range socialPlatforms {
		if p.Key == key {
			return p, true
		}
	}
	return SocialPlatform{}, false
}

// NormalizeSocialURL turns raw user input into a stored URL. Absolute http(s)
// URLs are kept; otherwise a leading "@" is stripped and the platform prefix is
// prepended ("@mi_clinica" -> "https://instagram.com/mi_clinica").
func NormalizeSocialURL(platform, raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return value
	}

	p, ok := LookupSocialPlatform(platform)
	if !ok || p.Prefix == "" {
		return "https://" + strings.TrimLeft(value, "/")
	}

	handle := strings.TrimLeft(value, "@")
	handle = strings.Trim(handle, "/")
	if strings.HasPrefix(strings.ToLower(handle), strings.TrimPrefix(p.Prefix, "https://")) {
		return "https://" + handle
	}
	return p.Prefix + handle
}
