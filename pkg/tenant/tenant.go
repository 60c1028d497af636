package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/translatable"
)

// Tenant represents one organization/customer account sharing the
// deployment. The slug doubles as the subdomain label; Domain holds an
// optional custom domain pointing at the same tenant.
type Tenant struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Slug   string    `json:"slug" gorm:"size:150;uniqueIndex;not null"`
	Domain *string   `json:"domain,omitempty" gorm:"size:255;uniqueIndex"`

	Name        translatable.Text `json:"name" gorm:"not null"`
	Description translatable.Text `json:"description,omitempty"`

	Email        string `json:"email" gorm:"size:150;uniqueIndex;not null"`
	Website      string `json:"website,omitempty" gorm:"size:255"`
	Phone        string `json:"phone,omitempty" gorm:"size:32"`
	LanguageCode string `json:"language_code" gorm:"size:2;not null"`
	CountryCode  string `json:"country_code" gorm:"size:2;not null"`
	State        string `json:"state,omitempty"`
	City         string `json:"city,omitempty"`
	Address      string `json:"address,omitempty"`
	PostalCode   string `json:"postal_code,omitempty" gorm:"size:32"`
	Timezone     string `json:"timezone,omitempty" gorm:"size:64"`
	Currency     string `json:"currency,omitempty" gorm:"size:8"`

	LaunchDate *datatypes.Date `json:"launch_date,omitempty"`
	Group      string          `json:"group,omitempty" gorm:"size:150;index"`
	IsActive   bool            `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName implements gorm.Tabler.
func (Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate assigns the primary key. Everything else about creation is
// handled explicitly by the Store pipeline, not by model hooks.
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the tenant name translated for the given locale.
func (t *Tenant) DisplayName(locale string) string {
	return t.Name.Get(locale)
}

// HasCustomDomain reports whether a custom domain is configured.
func (t *Tenant) HasCustomDomain() bool {
	return t.Domain != nil && *t.Domain != ""
}

// CustomDomain returns the configured custom domain, or "".
func (t *Tenant) CustomDomain() string {
	if t.Domain == nil {
		return ""
	}
	return *t.Domain
}
