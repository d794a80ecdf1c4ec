package main

import "time"

// ObjectKind distinguishes tables from views.
type ObjectKind int

const (
	ObjectTable ObjectKind = iota
	ObjectView
)

// StorageCategory is the physical organization of a table.
type StorageCategory int

const (
	StorageHeap StorageCategory = iota
	StorageIndexOrganized
	StorageTemporary
)

// LengthSemantics tells whether a character column length counts characters or bytes.
type LengthSemantics int

const (
	LengthNone LengthSemantics = iota
	LengthChar
	LengthByte
)

func (s LengthSemantics) String() string {
	switch s {
	case LengthChar:
		return "CHAR"
	case LengthByte:
		return "BYTE"
	default:
		return ""
	}
}

// Column represents a single column from ALL_TAB_COLUMNS.
type Column struct {
	Name            string
	DataType        string
	TypeID          string    // owner.type_name for user-defined types
	UserType        *UserType // set by the resolver when TypeID is documented
	Length          *int64
	LengthSemantics LengthSemantics
	Precision       *int64
	Scale           *int64
	Default         *string
	Comment         string
	Nullable        bool

	// Derived from constraints.
	PrimaryKey bool
	ForeignKey string   // id of the referenced table
	Checks     []string // check expressions, in constraint order
}

// UniqueKey is a primary or unique constraint listed under its table.
type UniqueKey struct {
	Name    string
	Columns []string
}

// IndexColumn is one key part of an index.
type IndexColumn struct {
	Expression string // column name, or the expression of a functional index
	Descend    string // ASC or DESC
}

// Index represents an index from ALL_INDEXES.
type Index struct {
	ID      string
	Owner   string
	Name    string
	TableID string
	Type    string
	Unique  bool
	Columns []IndexColumn
}

// Trigger represents a table or view trigger.
type Trigger struct {
	ID      string
	Owner   string
	Name    string
	TableID string
	Type    string // e.g. BEFORE EACH ROW
	Event   string // e.g. INSERT OR UPDATE
}

// Queue represents an advanced queue and its backing table.
type Queue struct {
	ID      string
	Owner   string
	Name    string
	TableID string
	Type    string
	Comment string
}

// SchemaObject is a table or a view. Nested tables are kept so references
// to them resolve, but they are not listed in the report.
type SchemaObject struct {
	ID          string
	Owner       string
	Name        string
	Comment     string
	Kind        ObjectKind
	Storage     StorageCategory
	Partitioned bool
	Nested      bool

	Columns    []*Column
	UniqueKeys []UniqueKey
	Indexes    []*Index
	Triggers   []*Trigger

	columns map[string]*Column
}

func newSchemaObject(owner, name string, kind ObjectKind) *SchemaObject {
	return &SchemaObject{
		ID:      objectID(owner, name),
		Owner:   owner,
		Name:    name,
		Kind:    kind,
		columns: make(map[string]*Column),
	}
}

// Column returns the named column.
func (o *SchemaObject) Column(name string) (*Column, bool) {
	c, ok := o.columns[name]
	return c, ok
}

func (o *SchemaObject) addColumns(cols []*Column) {
	for _, c := range cols {
		o.columns[c.Name] = c
	}
	o.Columns = append(o.Columns, cols...)
}

// TypeVariant is the shape of a user-defined type.
type TypeVariant int

const (
	TypeScalar TypeVariant = iota
	TypeArray
	TypeObject
)

// ArrayShape describes a VARRAY or nested table type.
type ArrayShape struct {
	CollectionType string
	UpperBound     *int64 // nil means unbounded
	ElemTypeName   string
	ElemTypeID     string
	ElemType       *UserType
	ElemLength     *int64
	ElemPrecision  *int64
	ElemScale      *int64
}

// TypeAttribute is one attribute of an object type.
type TypeAttribute struct {
	No        int64
	Name      string
	TypeName  string
	TypeID    string
	Type      *UserType
	Length    *int64
	Precision *int64
	Scale     *int64
}

// UserType represents a type from ALL_TYPES.
type UserType struct {
	ID         string
	Owner      string
	Name       string
	Code       string
	Variant    TypeVariant
	Array      *ArrayShape
	Attributes []TypeAttribute
	Methods    []string
}

// Schema is the documented graph for one owner. Collections keep the order
// in which the catalog returned them.
type Schema struct {
	Owner   string
	Objects []*SchemaObject
	Queues  []*Queue
	Types   []*UserType

	objects map[string]*SchemaObject
	types   map[string]*UserType
}

func newSchema(owner string) *Schema {
	return &Schema{
		Owner:   owner,
		objects: make(map[string]*SchemaObject),
		types:   make(map[string]*UserType),
	}
}

// Object returns the table or view with the given id.
func (s *Schema) Object(id string) (*SchemaObject, bool) {
	o, ok := s.objects[id]
	return o, ok
}

// Type returns the user-defined type with the given id.
func (s *Schema) Type(id string) (*UserType, bool) {
	t, ok := s.types[id]
	return t, ok
}

func (s *Schema) addObject(o *SchemaObject) {
	if _, dup := s.objects[o.ID]; !dup {
		s.Objects = append(s.Objects, o)
	}
	s.objects[o.ID] = o
}

func (s *Schema) addType(t *UserType) {
	if _, dup := s.types[t.ID]; !dup {
		s.Types = append(s.Types, t)
	}
	s.types[t.ID] = t
}

// ConstraintKind is the catalog constraint type code.
type ConstraintKind string

const (
	ConstraintPrimary ConstraintKind = "P"
	ConstraintUnique  ConstraintKind = "U"
	ConstraintForeign ConstraintKind = "R"
	ConstraintCheck   ConstraintKind = "C"
)

// Constraint is read from ALL_CONSTRAINTS and consumed by the resolver.
type Constraint struct {
	ID            string // owner.constraint_name
	Name          string
	TableID       string
	Kind          ConstraintKind
	Columns       []string
	Check         string
	RefConstraint string // id of the referenced constraint for foreign keys
}

// ConstraintSet keeps constraints in catalog order with lookup by id.
type ConstraintSet struct {
	list []*Constraint
	byID map[string]*Constraint
}

func newConstraintSet() *ConstraintSet {
	return &ConstraintSet{byID: make(map[string]*Constraint)}
}

func (cs *ConstraintSet) add(c *Constraint) {
	if _, dup := cs.byID[c.ID]; !dup {
		cs.list = append(cs.list, c)
	}
	cs.byID[c.ID] = c
}

// Lookup returns the constraint with the given owner-qualified id.
func (cs *ConstraintSet) Lookup(id string) (*Constraint, bool) {
	c, ok := cs.byID[id]
	return c, ok
}

// All returns constraints in catalog order.
func (cs *ConstraintSet) All() []*Constraint {
	return cs.list
}

func (cs *ConstraintSet) Len() int { return len(cs.list) }

// Gathered is everything aggregated from the catalog before resolution.
type Gathered struct {
	Schema      *Schema
	Constraints *ConstraintSet
	Indexes     []*Index
	Triggers    []*Trigger
}

// RunStats records the phase timestamps printed in the report footer.
type RunStats struct {
	GatherStart  time.Time
	GatherEnd    time.Time
	ProcessStart time.Time
	ProcessEnd   time.Time
	ReportStart  time.Time
	ReportEnd    time.Time
}
