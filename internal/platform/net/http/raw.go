package http

import (
	"fmt"
	stdhttp "net/http"
	"time"
)

// Raw body responders for endpoints that serve documents rather than
// the JSON envelope (rendered cards, index pages).

// RespondSVG writes an SVG document. maxAge > 0 also sets shared cache
// headers so CDN layers can hold the rendered card.
func RespondSVG(w stdhttp.ResponseWriter, status int, body []byte, maxAge time.Duration) {
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	if maxAge > 0 {
		sec := int(maxAge / time.Second)
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d", sec, sec))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// RespondHTML writes an HTML page
func RespondHTML(w stdhttp.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
