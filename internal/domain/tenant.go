package domain

// Tenant is an isolated customer/business namespace. Created out-of-band;
// this service only reads and updates its settings.
type Tenant struct {
	ID           string         `json:"id"`
	BusinessName string         `json:"businessName"`
	Subtitle     string         `json:"companySubtitle,omitempty"`
	BusinessType string         `json:"businessType,omitempty"`
	Nomenclature map[string]any `json:"nomenclature,omitempty"`
}

// UserProfile holds the tenant allow-list for a signed-in identity.
// The absence of a profile document is treated as access to all tenants.
type UserProfile struct {
	UID     string   `json:"uid"`
	Email   string   `json:"email,omitempty"`
	Tenants []string `json:"tenants"`
}
