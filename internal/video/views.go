package video

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

func viewerHash(ip, ua string) string {
	h := sha256.Sum256([]byte(ip + "|" + ua))
	return fmt.Sprintf("%x", h[:8])
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func parseUserAgent(uaString string) (browser, device string) {
	ua := useragent.New(uaString)
	browser, _ = ua.Browser()
	if browser == "" {
		browser = "Unknown"
	}
	switch {
	case ua.Bot():
		device = "Bot"
	case ua.Mobile():
		device = "Mobile"
	default:
		device = "Desktop"
	}
	return browser, device
}

// recordView stores one view row per lookup. Best effort: a failed insert is
// logged and never surfaces to the caller.
func (h *Handler) recordView(r *http.Request, videoID string) {
	ip := clientIP(r)
	browser, device := parseUserAgent(r.UserAgent())

	var country, city string
	if h.geo != nil {
		country, city = h.geo.Lookup(ip)
	}

	if _, err := h.db.Exec(r.Context(),
		`INSERT INTO video_views (video_id, viewer_hash, browser, device, country, city)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		videoID, viewerHash(ip, r.UserAgent()), browser, device, country, city,
	); err != nil {
		slog.Error("video: failed to record view", "video_id", videoID, "error", err)
	}
}
