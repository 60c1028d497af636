package tenantable

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Manager performs association operations between tenants and owned
// entities. It operates on the join table directly, so it works with or
// without the scoping Plugin registered.
type Manager struct {
	db *gorm.DB
}

// NewManager returns a manager bound to the given database handle.
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Attach associates the entity with the referenced tenants. Existing
// associations are left untouched, so attaching twice is a no-op.
func (m *Manager) Attach(ctx context.Context, e Entity, refs ...Ref) error {
	if e == nil {
		return ErrNilEntity
	}
	ids, err := resolveRefs(ctx, m.db, refs)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]Tenantable, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, Tenantable{
			TenantID:       id,
			TenantableID:   e.TenantableID(),
			TenantableType: e.TenantableType(),
		})
	}
	return m.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// Detach removes the entity's associations with the referenced tenants.
// With no refs it removes all of the entity's associations.
func (m *Manager) Detach(ctx context.Context, e Entity, refs ...Ref) error {
	if e == nil {
		return ErrNilEntity
	}
	q := m.db.WithContext(ctx).
		Where("tenantable_id = ? AND tenantable_type = ?", e.TenantableID(), e.TenantableType())
	if len(refs) > 0 {
		ids, err := resolveRefs(ctx, m.db, refs)
		if err != nil {
			return err
		}
		q = q.Where("tenant_id IN ?", ids)
	}
	return q.Delete(&Tenantable{}).Error
}

// Sync reconciles the entity's associations with the referenced set. New
// refs are attached; when detaching is true, associations outside the set
// are removed, so an empty set detaches everything.
func (m *Manager) Sync(ctx context.Context, e Entity, refs []Ref, detaching bool) error {
	if e == nil {
		return ErrNilEntity
	}
	ids, err := resolveRefs(ctx, m.db, refs)
	if err != nil {
		return err
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if detaching {
			q := tx.Where("tenantable_id = ? AND tenantable_type = ?", e.TenantableID(), e.TenantableType())
			if len(ids) > 0 {
				q = q.Where("tenant_id NOT IN ?", ids)
			}
			if err := q.Delete(&Tenantable{}).Error; err != nil {
				return err
			}
		}
		if len(ids) == 0 {
			return nil
		}

		rows := make([]Tenantable, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, Tenantable{
				TenantID:       id,
				TenantableID:   e.TenantableID(),
				TenantableType: e.TenantableType(),
			})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
}

// Tenants returns the tenants associated with the entity. Soft-deleted
// tenants are excluded; inactive tenants are included so callers can show
// suspended memberships.
func (m *Manager) Tenants(ctx context.Context, e Entity) ([]tenant.Tenant, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	var tenants []tenant.Tenant
	err := m.db.WithContext(ctx).
		Model(&tenant.Tenant{}).
		Joins("JOIN tenantables ON tenantables.tenant_id = tenants.id").
		Where("tenantables.tenantable_id = ? AND tenantables.tenantable_type = ?", e.TenantableID(), e.TenantableType()).
		Order("tenants.created_at").
		Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// TenantsWithGroup returns the entity's associated tenants narrowed to one
// group.
func (m *Manager) TenantsWithGroup(ctx context.Context, e Entity, group string) ([]tenant.Tenant, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	var tenants []tenant.Tenant
	err := m.db.WithContext(ctx).
		Model(&tenant.Tenant{}).
		Joins("JOIN tenantables ON tenantables.tenant_id = tenants.id").
		Where("tenantables.tenantable_id = ? AND tenantables.tenantable_type = ?", e.TenantableID(), e.TenantableType()).
		Where(`tenants."group" = ?`, group).
		Order("tenants.created_at").
		Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// TenantList returns the entity's associated tenants as an id-to-name map,
// with names localized to the given locale.
func (m *Manager) TenantList(ctx context.Context, e Entity, locale string) (map[uuid.UUID]string, error) {
	tenants, err := m.Tenants(ctx, e)
	if err != nil {
		return nil, err
	}
	list := make(map[uuid.UUID]string, len(tenants))
	for _, t := range tenants {
		list[t.ID] = t.Name.Get(locale)
	}
	return list, nil
}

// HasAny reports whether the entity is associated with at least one of the
// referenced tenants. A slug that matches no tenant counts as not
// associated rather than an error.
func (m *Manager) HasAny(ctx context.Context, e Entity, refs ...Ref) (bool, error) {
	n, _, err := m.countAssociated(ctx, e, refs)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasAll reports whether the entity is associated with every referenced
// tenant.
func (m *Manager) HasAll(ctx context.Context, e Entity, refs ...Ref) (bool, error) {
	n, total, err := m.countAssociated(ctx, e, refs)
	if err != nil {
		return false, err
	}
	return total > 0 && n == total, nil
}

// countAssociated resolves refs leniently and counts how many of them the
// entity is actually associated with. An unresolvable slug counts toward
// the total but can never match, so it reads as "not associated" without
// masking the refs that did resolve.
func (m *Manager) countAssociated(ctx context.Context, e Entity, refs []Ref) (matched, total int64, err error) {
	if e == nil {
		return 0, 0, ErrNilEntity
	}
	ids, missing, err := resolveRefsLenient(ctx, m.db, refs)
	if err != nil {
		return 0, 0, err
	}
	total = int64(len(ids) + len(missing))
	if len(ids) == 0 {
		return 0, total, nil
	}

	var n int64
	err = m.db.WithContext(ctx).
		Model(&Tenantable{}).
		Where("tenantable_id = ? AND tenantable_type = ? AND tenant_id IN ?", e.TenantableID(), e.TenantableType(), ids).
		Count(&n).Error
	if err != nil {
		return 0, 0, err
	}
	return n, total, nil
}

// Find loads an entity by primary key under the current tenant scope. When
// the row exists but is invisible to the tenant on the context, it returns
// NotFoundForTenantError instead of gorm.ErrRecordNotFound so handlers can
// report the tenant mismatch distinctly.
func (m *Manager) Find(ctx context.Context, dest Entity, id uuid.UUID) error {
	if dest == nil {
		return ErrNilEntity
	}
	err := m.db.WithContext(ctx).First(dest, "id = ?", id).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var count int64
	cntErr := SkipTenantScope(m.db.WithContext(ctx)).
		Model(dest).
		Where("id = ?", id).
		Count(&count).Error
	if cntErr != nil {
		return cntErr
	}
	if count > 0 {
		return &NotFoundForTenantError{Type: dest.TenantableType(), ID: id}
	}
	return err
}
