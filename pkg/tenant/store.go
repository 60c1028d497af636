package tenant

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/slug"
	"github.com/dmitrymomot/tenantkit/pkg/translatable"
	"github.com/dmitrymomot/tenantkit/pkg/validator"
)

const (
	maxSlugLength = 150
	maxNameLength = 150
)

// Store persists tenants. All writes go through an explicit pipeline:
// normalize, derive slug, validate, uniqueness pre-checks, persist. Unique
// constraint races that slip past the pre-checks surface as
// ErrDuplicateTenant, never silently.
type Store struct {
	db    *gorm.DB
	ready atomic.Bool
}

// NewStore creates a tenant store on the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for composing queries with the
// package-level scopes (Active, WithGroup, ...).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ready reports whether the database is reachable and the tenants table
// exists. The result is memoized once true: resolution is skipped entirely
// on fresh deployments until the schema shows up, instead of crashing boot.
func (s *Store) Ready(ctx context.Context) bool {
	if s.ready.Load() {
		return true
	}

	sqlDB, err := s.db.WithContext(ctx).DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return false
	}
	if !s.db.WithContext(ctx).Migrator().HasTable(&Tenant{}) {
		return false
	}

	s.ready.Store(true)
	return true
}

// Create validates and persists a new tenant. When no slug is supplied it is
// derived from the name in the context locale, with an incrementing suffix
// on collision. An explicitly supplied slug is preserved verbatim.
func (s *Store) Create(ctx context.Context, t *Tenant) error {
	s.normalize(t)

	if t.Slug == "" {
		name := t.Name.Get(translatable.GetLocale(ctx))
		generated, err := slug.MakeUnique(ctx, name, s.SlugExists, slug.MaxLength(maxSlugLength))
		if err != nil {
			return err
		}
		t.Slug = generated
	}

	if err := s.validate(ctx, t, uuid.Nil); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Join(ErrDuplicateTenant, err)
		}
		return err
	}
	return nil
}

// Update validates and persists changes to an existing tenant. The slug is
// never regenerated here; use RegenerateSlug for an explicit regeneration.
func (s *Store) Update(ctx context.Context, t *Tenant) error {
	if t.ID == uuid.Nil {
		return ErrTenantNotFound
	}
	s.normalize(t)

	if err := s.validate(ctx, t, t.ID); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Join(ErrDuplicateTenant, err)
		}
		return err
	}
	return nil
}

// RegenerateSlug derives a fresh slug from the current name and persists it.
// This is the only path that changes a slug after creation.
func (s *Store) RegenerateSlug(ctx context.Context, t *Tenant) error {
	name := t.Name.Get(translatable.GetLocale(ctx))
	generated, err := slug.MakeUnique(ctx, name, s.SlugExists, slug.MaxLength(maxSlugLength))
	if err != nil {
		return err
	}

	t.Slug = generated
	return s.db.WithContext(ctx).Model(t).Update("slug", generated).Error
}

// Activate flips the tenant to active, making it resolvable again.
func (s *Store) Activate(ctx context.Context, t *Tenant) error {
	t.IsActive = true
	return s.db.WithContext(ctx).Model(t).Update("is_active", true).Error
}

// Deactivate flips the tenant to inactive. The row remains but every
// resolution strategy and tenant scope stops matching it.
func (s *Store) Deactivate(ctx context.Context, t *Tenant) error {
	t.IsActive = false
	return s.db.WithContext(ctx).Model(t).Update("is_active", false).Error
}

// Delete soft-deletes the tenant: the row is retained but excluded from all
// lookups and scopes.
func (s *Store) Delete(ctx context.Context, t *Tenant) error {
	return s.db.WithContext(ctx).Delete(t).Error
}

// ForceDelete removes the tenant row permanently and cascades its
// association rows so no orphaned join records remain.
func (s *Store) ForceDelete(ctx context.Context, t *Tenant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("tenantables").Where("tenant_id = ?", t.ID).Delete(nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(t).Error
	})
}

// ByID fetches a tenant by primary key, soft-deleted rows excluded.
func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	var t Tenant
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ActiveBySlug fetches the unique active tenant with the given slug. Used by
// the subdomain strategy; inactive and soft-deleted tenants never match.
func (s *Store) ActiveBySlug(ctx context.Context, slugValue string) (*Tenant, error) {
	var t Tenant
	err := s.db.WithContext(ctx).Scopes(Active).First(&t, "slug = ?", slugValue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ActiveByDomain fetches the unique active tenant with the given custom
// domain. Used by the domain strategy.
func (s *Store) ActiveByDomain(ctx context.Context, domain string) (*Tenant, error) {
	var t Tenant
	err := s.db.WithContext(ctx).Scopes(Active).First(&t, "domain = ?", domain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByName fetches the first tenant whose name translation for the given
// locale equals name exactly.
func (s *Store) FindByName(ctx context.Context, name, locale string) (*Tenant, error) {
	var t Tenant
	err := s.db.WithContext(ctx).
		Where(datatypes.JSONQuery("name").Equals(name, translatable.Normalize(locale))).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns tenants matching the given scopes, e.g.
// store.List(ctx, tenant.Active, tenant.WithGroup("retail")).
func (s *Store) List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]Tenant, error) {
	var tenants []Tenant
	if err := s.db.WithContext(ctx).Scopes(scopes...).Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// SlugExists reports whether any tenant, including soft-deleted ones, holds
// the slug. Soft-deleted rows still occupy their slug because the unique
// index covers them.
func (s *Store) SlugExists(ctx context.Context, slugValue string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Unscoped().Model(&Tenant{}).
		Where("slug = ?", slugValue).Count(&count).Error
	return count > 0, err
}

func (s *Store) normalize(t *Tenant) {
	t.Slug = strings.TrimSpace(strings.ToLower(t.Slug))
	t.Email = strings.TrimSpace(strings.ToLower(t.Email))
	t.LanguageCode = strings.ToLower(strings.TrimSpace(t.LanguageCode))
	t.CountryCode = strings.ToUpper(strings.TrimSpace(t.CountryCode))
	if t.Domain != nil {
		d := strings.TrimSpace(strings.ToLower(*t.Domain))
		if d == "" {
			t.Domain = nil
		} else {
			t.Domain = &d
		}
	}
}

// validate applies the field rules and the uniqueness pre-checks. The
// excludeID parameter skips the tenant's own row on updates.
func (s *Store) validate(ctx context.Context, t *Tenant, excludeID uuid.UUID) error {
	name := t.Name.Get(translatable.GetLocale(ctx))

	err := validator.Apply(
		validator.Required("slug", t.Slug),
		validator.AlphaDash("slug", t.Slug),
		validator.MaxLen("slug", t.Slug, maxSlugLength),
		validator.Required("name", name),
		validator.MaxLen("name", name, maxNameLength),
		validator.Required("email", t.Email),
		validator.Email("email", t.Email),
		validator.MaxLen("email", t.Email, 150),
		validator.NumericStr("phone", t.Phone),
		validator.Required("language_code", t.LanguageCode),
		validator.Language("language_code", t.LanguageCode),
		validator.Required("country_code", t.CountryCode),
		validator.Country("country_code", t.CountryCode),
		validator.MaxLen("group", t.Group, 150),
	)

	ve := validator.Extract(err)
	if ve == nil {
		ve = validator.ValidationErrors{}
	}

	// Uniqueness pre-checks catch conflicts before they hit the database so
	// they surface as field errors; the unique indexes remain the authority.
	if t.Slug != "" && !ve.Has("slug") {
		if taken, err := s.takenBy(ctx, "slug", t.Slug, excludeID); err != nil {
			return err
		} else if taken {
			ve.Add("slug", "has already been taken")
		}
	}
	if t.HasCustomDomain() {
		if taken, err := s.takenBy(ctx, "domain", t.CustomDomain(), excludeID); err != nil {
			return err
		} else if taken {
			ve.Add("domain", "has already been taken")
		}
	}
	if t.Email != "" && !ve.Has("email") {
		if taken, err := s.takenBy(ctx, "email", t.Email, excludeID); err != nil {
			return err
		} else if taken {
			ve.Add("email", "has already been taken")
		}
	}

	if ve.IsEmpty() {
		return nil
	}
	return ve
}

func (s *Store) takenBy(ctx context.Context, column, value string, excludeID uuid.UUID) (bool, error) {
	q := s.db.WithContext(ctx).Unscoped().Model(&Tenant{}).Where(column+" = ?", value)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Active keeps only active tenants.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// Inactive keeps only deactivated tenants.
func Inactive(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", false)
}

// WithGroup keeps tenants in the given classification group.
func WithGroup(group string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("\"group\" = ?", group)
	}
}
