package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
)

// Broadcaster defines the coordination API surface for channel messages.
type Broadcaster interface {
	Broadcast(ctx context.Context, token, message string) error
}

// BroadcastInput carries input for the broadcast orchestrator.
type BroadcastInput struct {
	Message string // markdown source
	Token   string
	Actor   Actor
}

// BroadcastDeps holds dependencies for Broadcast.
type BroadcastDeps struct {
	API        Broadcaster
	AuditStore auditstore.Store
}

// MaxBroadcastLength is the Telegram message size limit.
const MaxBroadcastLength = 4096

var (
	ErrEmptyBroadcast   = errors.New("broadcast message is empty")
	ErrBroadcastTooLong = fmt.Errorf("broadcast message exceeds %d characters", MaxBroadcastLength)
)

// ExecuteBroadcast sends an announcement through the coordination API
// to the community channel.
// PRE: Message is non-blank and within the channel size limit
// POST: The message was accepted for delivery
func ExecuteBroadcast(ctx context.Context, input BroadcastInput, deps BroadcastDeps) error {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return ErrEmptyBroadcast
	}
	if utf8.RuneCountInString(message) > MaxBroadcastLength {
		return ErrBroadcastTooLong
	}

	if err := deps.API.Broadcast(ctx, input.Token, message); err != nil {
		return err
	}

	slog.Info("broadcast_event", "event", "broadcast_sent", "length", utf8.RuneCountInString(message))
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategoryBroadcast, audit.ActionSend).
		WithDescription(snippet(message)))
	return nil
}

// snippet shortens a message for the audit trail.
func snippet(s string) string {
	const max = 120
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
