package handler

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lugoda-hospital/backend/pkg/csrf"
)

// SecurityHeaders adds security response headers (CSP, X-Frame-Options, etc.)
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-XSS-Protection", "0")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter provides IP-based rate limiting using a sliding window.
// Counters are process-local and ephemeral; they carry no durability
// requirement across restarts.
type RateLimiter struct {
	max               int
	window            time.Duration
	trustedProxyCount int
	mu                sync.Mutex
	clients           map[string]*clientWindow
}

type clientWindow struct {
	timestamps []time.Time
}

// NewRateLimiter creates a rate limiter allowing max requests per client
// address within the trailing window. Assumes a single trusted reverse
// proxy (nginx) by default.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		max:               max,
		window:            window,
		trustedProxyCount: 1,
		clients:           make(map[string]*clientWindow),
	}
	go rl.cleanupLoop()
	return rl
}

// cleanupLoop periodically removes stale entries from the clients map.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		windowStart := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for ip, cw := range rl.clients {
			valid := cw.timestamps[:0]
			for _, ts := range cw.timestamps {
				if ts.After(windowStart) {
					valid = append(valid, ts)
				}
			}
			cw.timestamps = valid
			if len(cw.timestamps) == 0 {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns an http.Handler that enforces the rate limit. It runs
// ahead of routing and applies to every route.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		now := time.Now()
		windowStart := now.Add(-rl.window)

		rl.mu.Lock()
		cw, ok := rl.clients[ip]
		if !ok {
			cw = &clientWindow{}
			rl.clients[ip] = cw
		}

		// Prune timestamps outside the window; in-place filter on shared backing array
		valid := cw.timestamps[:0]
		for _, ts := range cw.timestamps {
			if ts.After(windowStart) {
				valid = append(valid, ts)
			}
		}
		cw.timestamps = valid

		if len(cw.timestamps) >= rl.max {
			oldest := cw.timestamps[0]
			retryAfter := oldest.Add(rl.window).Sub(now)
			rl.mu.Unlock()

			w.Header().Set("Retry-After", retryAfterSeconds(retryAfter))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		cw.timestamps = append(cw.timestamps, now)
		rl.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP extracts the real client IP, reading from the rightmost trusted
// proxy position in X-Forwarded-For to prevent spoofing.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		// The rightmost entry added by our infrastructure is at
		// index len(parts) - trustedProxyCount.
		idx := len(parts) - rl.trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// maxCSRFBodyPeek bounds how much of a request body the CSRF check will
// buffer while looking for an in-body token.
const maxCSRFBodyPeek = 1 << 20

// RequireCSRFToken rejects state-changing requests (POST/PUT/DELETE) that
// carry no anti-forgery token. The token may arrive in the X-CSRF-Token
// header or as a csrfToken/_csrf JSON body field. Only presence is
// checked; issued values are not stored or compared.
func RequireCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get(csrf.HeaderName) != "" {
			next.ServeHTTP(w, r)
			return
		}

		// Fall back to an in-body field. The body is buffered and restored
		// so the handler can still decode it.
		if r.Body != nil {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxCSRFBodyPeek))
			if err == nil {
				r.Body = io.NopCloser(bytes.NewReader(body))

				var fields struct {
					CSRFToken string `json:"csrfToken"`
					CSRF      string `json:"_csrf"`
				}
				if json.Unmarshal(body, &fields) == nil &&
					(fields.CSRFToken != "" || fields.CSRF != "") {
					next.ServeHTTP(w, r)
					return
				}
			}
		}

		writeError(w, http.StatusForbidden, "missing_csrf_token")
	})
}

// BasicAuth guards the admin routes with HTTP Basic credentials.
// Comparison is constant time over credential digests so neither length
// nor prefix leaks.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	wantUser := sha256.Sum256([]byte(username))
	wantPass := sha256.Sum256([]byte(password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if ok {
				gotUser := sha256.Sum256([]byte(user))
				gotPass := sha256.Sum256([]byte(pass))
				userOK := subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1
				passOK := subtle.ConstantTimeCompare(gotPass[:], wantPass[:]) == 1
				if userOK && passOK {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
		})
	}
}
