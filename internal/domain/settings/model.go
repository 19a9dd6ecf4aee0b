package settings

import "strings"

// maskedValue is what the API returns in place of secrets it refuses to echo.
const maskedValue = "HIDDEN"

// Bundle is the flat integration configuration fetched and saved wholesale.
type Bundle struct {
	TelegramBotToken  string `json:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID string `json:"TELEGRAM_CHANNEL_ID"`
	AdminGroupID      string `json:"ADMIN_GROUP_ID"`
	SupabaseURL       string `json:"SUPABASE_URL"`
	SupabaseKey       string `json:"SUPABASE_KEY"`
}

// IsMasked reports whether v is a placeholder the API substituted for a
// secret. Masked values must not be written back on save.
func IsMasked(v string) bool {
	return v == maskedValue
}

// Sending returns a copy of the bundle with masked placeholders blanked so a
// wholesale save never overwrites a real secret with "HIDDEN".
// INVARIANT: The receiver is not mutated
func (b Bundle) Sending() Bundle {
	if IsMasked(b.TelegramBotToken) {
		b.TelegramBotToken = ""
	}
	if IsMasked(b.SupabaseKey) {
		b.SupabaseKey = ""
	}
	return b
}

// Preview masks a secret for display, keeping a short identifying prefix.
func Preview(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 6 {
		return strings.Repeat("•", len(secret))
	}
	return secret[:4] + strings.Repeat("•", 8)
}
