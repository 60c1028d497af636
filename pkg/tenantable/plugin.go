package tenantable

import (
	"reflect"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Plugin wires tenant scoping into a *gorm.DB. Once registered with db.Use,
// every query, update, and delete against an Entity model is restricted to
// rows owned by the tenant on the statement context, creates attach the new
// row to that tenant, and deletes remove its association rows. Statements
// without a tenant on the context run unscoped.
type Plugin struct{}

// NewPlugin returns the scoping plugin. Register it with db.Use.
func NewPlugin() *Plugin {
	return &Plugin{}
}

// Name implements gorm.Plugin.
func (*Plugin) Name() string {
	return "tenantable"
}

// Initialize implements gorm.Plugin.
func (p *Plugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenantable:scope_query", p.applyScope); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenantable:scope_row", p.applyScope); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenantable:scope_update", p.applyScope); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenantable:scope_delete", p.applyScope); err != nil {
		return err
	}
	if err := db.Callback().Create().After("gorm:create").Register("tenantable:auto_attach", p.autoAttach); err != nil {
		return err
	}
	return db.Callback().Delete().After("gorm:delete").Register("tenantable:cascade_detach", p.cascadeDetach)
}

// applyScope adds the visibility predicate to the statement when the model
// is tenant-owned (or a child of one) and a tenant is present on the
// context.
func (p *Plugin) applyScope(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Schema == nil || stmt.Unscoped {
		return
	}

	t, ok := tenant.FromContext(stmt.Context)
	if !ok {
		return
	}

	if ent, ok := modelAs[Entity](stmt.Schema.ModelType); ok {
		if skipped(db, skipTenantScopeKey) {
			return
		}
		pk := "id"
		if f := stmt.Schema.PrioritizedPrimaryField; f != nil {
			pk = f.DBName
		}
		stmt.AddClause(clause.Where{Exprs: []clause.Expression{
			ownedExpr(stmt.Table, pk, ent.TenantableType(), t.ID),
		}})
		return
	}

	if child, ok := modelAs[ChildEntity](stmt.Schema.ModelType); ok {
		if skipped(db, skipChildScopeKey) {
			return
		}
		stmt.AddClause(clause.Where{Exprs: []clause.Expression{
			childExpr(stmt.Table, child.TenantableParent(), t.ID),
		}})
	}
}

// autoAttach links freshly created entities to the tenant on the context.
func (p *Plugin) autoAttach(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil || skipped(db, skipAutoAttachKey) {
		return
	}
	if _, ok := modelAs[Entity](stmt.Schema.ModelType); !ok {
		return
	}

	t, ok := tenant.FromContext(stmt.Context)
	if !ok {
		return
	}

	rows := joinRows(stmt.ReflectValue, t.ID)
	if len(rows) == 0 {
		return
	}

	err := db.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		_ = db.AddError(err)
	}
}

// cascadeDetach removes association rows of deleted entities so the join
// table never references rows that are gone. Runs for soft deletes as well.
// Ids are taken from the statement destination, so batch deletes by bare
// condition do not cascade; delete through model instances when cleanup
// matters.
func (p *Plugin) cascadeDetach(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil || db.RowsAffected == 0 {
		return
	}
	if _, ok := modelAs[Entity](stmt.Schema.ModelType); !ok {
		return
	}

	var ids []any
	eachEntity(stmt.ReflectValue, func(e Entity) {
		if id := e.TenantableID(); id != uuid.Nil {
			ids = append(ids, id)
		}
	})
	if len(ids) == 0 {
		return
	}

	typ, _ := modelAs[Entity](stmt.Schema.ModelType)
	err := db.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
		Where("tenantable_id IN ? AND tenantable_type = ?", ids, typ.TenantableType()).
		Delete(&Tenantable{}).Error
	if err != nil {
		_ = db.AddError(err)
	}
}

// joinRows builds join-table rows for every entity in the statement dest.
func joinRows(rv reflect.Value, tenantID uuid.UUID) []Tenantable {
	var rows []Tenantable
	eachEntity(rv, func(e Entity) {
		id := e.TenantableID()
		if id == uuid.Nil {
			return
		}
		rows = append(rows, Tenantable{
			TenantID:       tenantID,
			TenantableID:   id,
			TenantableType: e.TenantableType(),
		})
	})
	return rows
}

// eachEntity visits every Entity value in a statement's reflect value,
// handling both single-struct and batch destinations.
func eachEntity(rv reflect.Value, fn func(Entity)) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			eachEntity(rv.Index(i), fn)
		}
	case reflect.Struct:
		if e, ok := asEntity(rv); ok {
			fn(e)
		}
	}
}

// asEntity extracts the Entity interface from a struct value, trying the
// addressable pointer first so pointer-receiver implementations work.
func asEntity(rv reflect.Value) (Entity, bool) {
	if rv.CanAddr() {
		if e, ok := rv.Addr().Interface().(Entity); ok {
			return e, true
		}
	}
	e, ok := rv.Interface().(Entity)
	return e, ok
}

// modelAs instantiates a zero value of the model type and asserts it to the
// requested capability interface.
func modelAs[T any](mt reflect.Type) (T, bool) {
	var zero T
	it := reflect.TypeOf(&zero).Elem()
	if reflect.PointerTo(mt).Implements(it) {
		v, ok := reflect.New(mt).Interface().(T)
		return v, ok
	}
	if mt.Implements(it) {
		v, ok := reflect.New(mt).Elem().Interface().(T)
		return v, ok
	}
	return zero, false
}

// skipped reports whether a statement-level opt-out flag is set.
func skipped(db *gorm.DB, key string) bool {
	v, ok := db.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
