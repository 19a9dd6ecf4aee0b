package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"donorhub/internal/adapters/coordapi"
	"donorhub/internal/adapters/http/livefeed"
	"donorhub/internal/adapters/http/middleware"
	"donorhub/internal/adapters/http/perf"
	auditStore "donorhub/internal/adapters/storage/audit"
	sessionStore "donorhub/internal/adapters/storage/session"
)

// Deps holds everything the handlers need.
type Deps struct {
	API        *coordapi.Client
	Sessions   sessionStore.Store
	AuditStore auditStore.Store
	Collector  *perf.Collector
	Hub        *livefeed.Hub
	Poller     *livefeed.Poller
}

// Global deps instance (set by NewMux)
var deps *Deps

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// startedAt anchors the uptime shown on the status page.
var startedAt = time.Now()

// loadCSRFKey reads the CSRF secret from DONORHUB_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("DONORHUB_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("DONORHUB_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("DONORHUB_ENV") == "production" {
		log.Fatal("DONORHUB_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set DONORHUB_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, d *Deps) http.Handler {
	deps = d
	middleware.SecureCookies = os.Getenv("DONORHUB_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(d.Sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(d.Collector),
	)
}
