package livefeed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"donorhub/internal/adapters/coordapi"
	"donorhub/internal/domain/request"
)

// RequestSource defines the coordination API surface the poller needs.
type RequestSource interface {
	ListRequests(ctx context.Context, token string) ([]request.BloodRequest, error)
}

// Update is the payload pushed to feed pages.
type Update struct {
	Type     string                 `json:"type"`
	Seq      uint64                 `json:"seq"`
	Active   int                    `json:"active"`
	Requests []request.BloodRequest `json:"requests"`
}

// Poller watches the request feed on an interval and pushes changes to
// the hub. Each poll carries a sequence number taken at launch; a
// completion whose sequence is older than the last applied one is
// dropped, so a slow poll never overwrites a fresher result.
type Poller struct {
	api      RequestSource
	hub      *Hub
	interval time.Duration

	seq         atomic.Uint64
	mu          sync.Mutex
	lastApplied uint64
	lastPayload []byte

	tokenMu sync.RWMutex
	token   string
}

// NewPoller creates a poller. Call Run to start it.
func NewPoller(api RequestSource, hub *Hub, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{api: api, hub: hub, interval: interval}
}

// SetToken hands the poller a remote access token to poll with. Feed
// page connects call this; the newest token wins. An empty token stops
// polling until the next connect.
func (p *Poller) SetToken(token string) {
	p.tokenMu.Lock()
	p.token = token
	p.tokenMu.Unlock()
}

func (p *Poller) currentToken() string {
	p.tokenMu.RLock()
	defer p.tokenMu.RUnlock()
	return p.token
}

// Run polls until ctx is cancelled. Polls launch on the tick even when
// an earlier poll is still in flight; the sequence guard keeps ordering.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.hub.ClientCount() == 0 {
				continue
			}
			token := p.currentToken()
			if token == "" {
				continue
			}
			go p.poll(ctx, p.seq.Add(1), token)
		}
	}
}

func (p *Poller) poll(ctx context.Context, seq uint64, token string) {
	requests, err := p.api.ListRequests(ctx, token)
	if err != nil {
		if errors.Is(err, coordapi.ErrUnauthorized) {
			// The token died; stop polling until a page reconnects.
			p.SetToken("")
		}
		slog.Warn("feed_poll_failed", "seq", seq, "error", err)
		return
	}

	active := 0
	for _, r := range requests {
		if r.IsActive {
			active++
		}
	}
	payload, err := json.Marshal(Update{
		Type:     "requests",
		Seq:      seq,
		Active:   active,
		Requests: requests,
	})
	if err != nil {
		slog.Error("feed_encode_failed", "error", err)
		return
	}

	if p.apply(seq, payload) {
		p.hub.Broadcast(payload)
	}
}

// apply records a completed poll. It returns false when the result is
// stale (an earlier-launched poll finished after a later one) or when
// nothing changed since the last push.
func (p *Poller) apply(seq uint64, payload []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq <= p.lastApplied {
		slog.Debug("feed_poll_stale", "seq", seq, "applied", p.lastApplied)
		return false
	}
	changed := !payloadEqual(p.lastPayload, payload)
	p.lastApplied = seq
	p.lastPayload = payload
	return changed
}

// payloadEqual compares payloads ignoring the seq field, which differs
// on every poll.
func payloadEqual(a, b []byte) bool {
	if a == nil || b == nil {
		return false
	}
	var ua, ub Update
	if json.Unmarshal(a, &ua) != nil || json.Unmarshal(b, &ub) != nil {
		return bytes.Equal(a, b)
	}
	ua.Seq, ub.Seq = 0, 0
	ja, _ := json.Marshal(ua)
	jb, _ := json.Marshal(ub)
	return bytes.Equal(ja, jb)
}
