package tenantable

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Ref identifies a tenant in association operations. Construct one with
// ByID, BySlug, or ByTenant; the zero value is invalid.
type Ref struct {
	id   uuid.UUID
	slug string
}

// ByID references a tenant by primary key.
func ByID(id uuid.UUID) Ref {
	return Ref{id: id}
}

// BySlug references a tenant by its slug. The slug is resolved against
// active tenants when the operation runs.
func BySlug(slug string) Ref {
	return Ref{slug: slug}
}

// ByTenant references an already loaded tenant.
func ByTenant(t *tenant.Tenant) Ref {
	if t == nil {
		return Ref{}
	}
	return Ref{id: t.ID}
}

// byID reports whether the reference carries a primary key.
func (r Ref) byID() bool {
	return r.id != uuid.Nil
}

// split partitions refs into ids and slugs, dropping invalid zero refs.
func split(refs []Ref) (ids []uuid.UUID, slugs []string) {
	for _, r := range refs {
		switch {
		case r.byID():
			ids = append(ids, r.id)
		case r.slug != "":
			slugs = append(slugs, r.slug)
		}
	}
	return ids, slugs
}

// resolveRefs maps refs to a deduplicated set of tenant ids. Slug refs are
// looked up against active tenants; a slug that matches nothing yields an
// UnknownTenantRefError.
func resolveRefs(ctx context.Context, db *gorm.DB, refs []Ref) ([]uuid.UUID, error) {
	ids, missing, err := resolveRefsLenient(ctx, db, refs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &UnknownTenantRefError{Ref: missing[0]}
	}
	return ids, nil
}

// resolveRefsLenient maps refs to a deduplicated set of tenant ids, keeping
// the ids that resolve and collecting the slugs that match nothing instead
// of failing the whole set. Membership checks use it so one unknown slug
// never masks the rest of the refs.
func resolveRefsLenient(ctx context.Context, db *gorm.DB, refs []Ref) (ids []uuid.UUID, missing []string, err error) {
	ids, slugs := split(refs)

	if len(slugs) > 0 {
		var rows []struct {
			ID   uuid.UUID
			Slug string
		}
		err := db.WithContext(ctx).
			Model(&tenant.Tenant{}).
			Select("id", "slug").
			Where("slug IN ? AND is_active = ?", slugs, true).
			Find(&rows).Error
		if err != nil {
			return nil, nil, err
		}

		found := make(map[string]uuid.UUID, len(rows))
		for _, row := range rows {
			found[row.Slug] = row.ID
		}
		seenSlugs := make(map[string]struct{}, len(slugs))
		for _, s := range slugs {
			if _, dup := seenSlugs[s]; dup {
				continue
			}
			seenSlugs[s] = struct{}{}
			if id, ok := found[s]; ok {
				ids = append(ids, id)
			} else {
				missing = append(missing, s)
			}
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, missing, nil
}
