package models

// SettingsID is the key of the single settings row in the local store.
const SettingsID = "default"

// EmailSignup configures the mailing-list prompt shown after checkout.
type EmailSignup struct {
	Enabled bool   `json:"enabled"`
	ListID  string `json:"list_id,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
}

// UserSettings is the single mutable per-user record. It is overwritten in
// place; PendingSync marks local edits not yet pushed to the settings backend.
type UserSettings struct {
	ID             string          `json:"id"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
	CategoryOrder  []string        `json:"category_order,omitempty"`
	TipJarEnabled  bool            `json:"tip_jar_enabled"`
	Currency       string          `json:"currency"`
	Theme          string          `json:"theme,omitempty"`
	EmailSignup    EmailSignup     `json:"email_signup"`
	PendingSync    bool            `json:"pending_sync"`
}

// DefaultSettings returns the record created on first use.
func DefaultSettings() *UserSettings {
	return &UserSettings{
		ID:             SettingsID,
		PaymentMethods: []PaymentMethod{PaymentCash, PaymentCard},
		TipJarEnabled:  false,
		Currency:       "USD",
	}
}
