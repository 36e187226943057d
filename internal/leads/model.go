package leads

import (
	"strings"
	"time"
)

// Lead is a persisted quote request from the marketing site.
//
// ID and CreatedAt are assigned by the repository at write time; whatever a
// client supplies for them is discarded. GDPRConsent is always true on a
// stored record because submissions without consent are rejected up front.
type Lead struct {
	ID                string            `json:"id" bson:"_id"`
	FirstName         string            `json:"firstName" bson:"first_name"`
	LastName          string            `json:"lastName" bson:"last_name"`
	Email             string            `json:"email" bson:"email"`
	Phone             string            `json:"phone" bson:"phone"`
	Country           string            `json:"country" bson:"country"`
	PreferredLanguage string            `json:"preferredLanguage" bson:"preferred_language"`
	ModelID           string            `json:"modelId" bson:"model_id"`
	ModelName         string            `json:"modelName" bson:"model_name"`
	Budget            *float64          `json:"budget" bson:"budget"`
	Message           string            `json:"message" bson:"message"`
	GDPRConsent       bool              `json:"gdprConsent" bson:"gdpr_consent"`
	UTM               map[string]string `json:"utm" bson:"utm"`
	CreatedAt         time.Time         `json:"createdAt" bson:"created_at"`
}

// DisplayModel returns the human-facing model label, falling back to the
// catalog ID when the name was not resolved client-side.
func (l *Lead) DisplayModel() string {
	if l.ModelName != "" {
		return l.ModelName
	}
	return l.ModelID
}

// SubmitLeadRequest is the inbound submission payload.
type SubmitLeadRequest struct {
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Country           string            `json:"country"`
	PreferredLanguage string            `json:"preferredLanguage"`
	ModelID           string            `json:"modelId"`
	ModelName         string            `json:"modelName"`
	Budget            *float64          `json:"budget"`
	Message           string            `json:"message"`
	GDPRConsent       bool              `json:"gdprConsent"`
	UTM               map[string]string `json:"utm"`
	RecaptchaToken    string            `json:"recaptchaToken"`
}

// Validate checks the payload. Consent is checked before the required fields
// so a consent-less but otherwise complete submission still gets the consent
// error the form surfaces to the visitor.
func (r *SubmitLeadRequest) Validate() error {
	if !r.GDPRConsent {
		return ErrConsentRequired
	}
	if strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.FirstName) == "" ||
		strings.TrimSpace(r.LastName) == "" ||
		strings.TrimSpace(r.ModelID) == "" {
		return ErrMissingFields
	}
	if r.Budget != nil && *r.Budget < 0 {
		return ErrInvalidBudget
	}
	return nil
}

// Lead normalizes the payload into a Lead candidate with defaults applied.
// ID and CreatedAt are left zero for the repository to assign.
func (r *SubmitLeadRequest) Lead() *Lead {
	lang := strings.TrimSpace(r.PreferredLanguage)
	if lang == "" {
		lang = "en"
	}
	return &Lead{
		FirstName:         strings.TrimSpace(r.FirstName),
		LastName:          strings.TrimSpace(r.LastName),
		Email:             strings.TrimSpace(r.Email),
		Phone:             r.Phone,
		Country:           r.Country,
		PreferredLanguage: lang,
		ModelID:           strings.TrimSpace(r.ModelID),
		ModelName:         r.ModelName,
		Budget:            r.Budget,
		Message:           r.Message,
		GDPRConsent:       true,
		UTM:               r.UTM,
	}
}
