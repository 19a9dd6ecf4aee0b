package orchestrators

import (
	"context"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
	"donorhub/internal/domain/settings"
)

// SettingsWriter defines the coordination API surface for settings.
type SettingsWriter interface {
	SaveSettings(ctx context.Context, token string, b settings.Bundle) (string, error)
}

// SaveSettingsInput carries input for the settings orchestrator.
type SaveSettingsInput struct {
	Bundle settings.Bundle
	Token  string
	Actor  Actor
}

// SaveSettingsDeps holds dependencies for SaveSettings.
type SaveSettingsDeps struct {
	API        SettingsWriter
	AuditStore auditstore.Store
}

// ExecuteSaveSettings pushes runtime settings to the coordination API.
// Masked secret values are blanked before sending so the server keeps
// its stored secret unless the operator typed a replacement.
// PRE: Bundle came from the settings form
// POST: Returns the server's confirmation message
func ExecuteSaveSettings(ctx context.Context, input SaveSettingsInput, deps SaveSettingsDeps) (string, error) {
	sending := input.Bundle.Sending()
	msg, err := deps.API.SaveSettings(ctx, input.Token, sending)
	if err != nil {
		return "", err
	}

	slog.Info("settings_event", "event", "settings_saved")

	// The trail records an identifying prefix of replaced secrets, never
	// the secret itself.
	desc := "runtime settings updated"
	if sending.TelegramBotToken != "" {
		desc += "; bot token set to " + settings.Preview(sending.TelegramBotToken)
	}
	if sending.SupabaseKey != "" {
		desc += "; supabase key set to " + settings.Preview(sending.SupabaseKey)
	}
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategorySettings, audit.ActionUpdate).
		WithSeverity(audit.SeverityWarning).
		WithDescription(desc))
	return msg, nil
}
