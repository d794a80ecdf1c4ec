package main

import (
	"context"
	"iter"
	"strings"

	"go.uber.org/zap"
)

// Aggregator folds the catalog row streams of one owner into an unresolved
// schema graph. Each stream is consumed once, front to back.
type Aggregator struct {
	reader CatalogReader
	log    *zap.SugaredLogger
}

func newAggregator(reader CatalogReader, log *zap.SugaredLogger) *Aggregator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Aggregator{reader: reader, log: log}
}

// groupBy consumes a stream sorted by key and calls flush once per run of
// equal keys. Sort order is trusted, not checked.
func groupBy[T any](seq iter.Seq2[T, error], key func(T) string, flush func(key string, group []T) error) error {
	var (
		cur     string
		group   []T
		started bool
	)
	for row, err := range seq {
		if err != nil {
			return err
		}
		k := key(row)
		if started && k != cur {
			if err := flush(cur, group); err != nil {
				return err
			}
			group = nil
		}
		cur, started = k, true
		group = append(group, row)
	}
	if started {
		return flush(cur, group)
	}
	return nil
}

// each applies fn to every row of a stream.
func each[T any](seq iter.Seq2[T, error], fn func(T) error) error {
	for row, err := range seq {
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

type aggregation struct {
	schema      *Schema
	constraints *ConstraintSet
	indexes     []*Index
	indexByID   map[string]*Index
	triggers    []*Trigger
}

// Aggregate reads every catalog stream for owner. The result is only
// returned once all streams have been consumed.
func (a *Aggregator) Aggregate(ctx context.Context, owner string) (*Gathered, error) {
	owner = strings.ToUpper(owner)
	st := &aggregation{
		schema:      newSchema(owner),
		constraints: newConstraintSet(),
		indexByID:   make(map[string]*Index),
	}

	steps := []struct {
		name string
		fn   func(context.Context, string, *aggregation) error
	}{
		{"tables", a.tables},
		{"views", a.views},
		{"columns", a.columns},
		{"queues", a.queues},
		{"constraints", a.constraints},
		{"constraint columns", a.constraintColumns},
		{"indexes", a.indexes},
		{"index columns", a.indexColumns},
		{"triggers", a.triggers},
		{"types", a.types},
		{"collection types", a.collectionTypes},
		{"type attributes", a.typeAttributes},
		{"type methods", a.typeMethods},
	}
	for _, step := range steps {
		if err := step.fn(ctx, owner, st); err != nil {
			return nil, err
		}
		a.log.Debugw("aggregated", "stream", step.name)
	}

	return &Gathered{
		Schema:      st.schema,
		Constraints: st.constraints,
		Indexes:     st.indexes,
		Triggers:    st.triggers,
	}, nil
}

func (a *Aggregator) tables(ctx context.Context, owner string, st *aggregation) error {
	return each(a.reader.Tables(ctx, owner), func(r TableRow) error {
		o := newSchemaObject(r.Owner, r.Name, ObjectTable)
		o.Comment = r.Comment
		switch {
		case r.IOTType != "":
			o.Storage = StorageIndexOrganized
		case r.Temporary == "Y":
			o.Storage = StorageTemporary
		default:
			o.Storage = StorageHeap
		}
		o.Partitioned = r.Partitioned == "YES"
		o.Nested = r.Nested == "YES"
		st.schema.addObject(o)
		return nil
	})
}

func (a *Aggregator) views(ctx context.Context, owner string, st *aggregation) error {
	return each(a.reader.Views(ctx, owner), func(r ViewRow) error {
		o := newSchemaObject(r.Owner, r.Name, ObjectView)
		o.Comment = r.Comment
		st.schema.addObject(o)
		return nil
	})
}

func (a *Aggregator) columns(ctx context.Context, owner string, st *aggregation) error {
	return groupBy(a.reader.Columns(ctx, owner),
		func(r ColumnRow) string { return objectID(r.Owner, r.TableName) },
		func(id string, rows []ColumnRow) error {
			o, ok := st.schema.Object(id)
			if !ok {
				// Clusters and similar objects are filtered out of the object
				// queries but still own columns.
				a.log.Debugw("skipping columns of unlisted object", "object", id, "columns", len(rows))
				return nil
			}
			cols := make([]*Column, 0, len(rows))
			for _, r := range rows {
				cols = append(cols, columnFromRow(r))
			}
			o.addColumns(cols)
			return nil
		})
}

func columnFromRow(r ColumnRow) *Column {
	c := &Column{
		Name:      r.Name,
		DataType:  r.DataType,
		Length:    r.DataLength,
		Precision: r.Precision,
		Scale:     r.Scale,
		Comment:   r.Comment,
		Nullable:  r.Nullable == "Y",
	}
	if r.DataTypeOwner != "" {
		c.TypeID = objectID(r.DataTypeOwner, r.DataType)
	}
	switch r.CharUsed {
	case "C":
		c.LengthSemantics = LengthChar
		c.Length = r.CharLength
	case "B":
		c.LengthSemantics = LengthByte
		c.Length = r.CharLength
	}
	if r.Default != nil {
		d := unquoteDefault(*r.Default)
		c.Default = &d
	}
	return c
}

func (a *Aggregator) queues(ctx context.Context, owner string, st *aggregation) error {
	return each(a.reader.Queues(ctx, owner), func(r QueueRow) error {
		st.schema.Queues = append(st.schema.Queues, &Queue{
			ID:      objectID(r.Owner, r.Name),
			Owner:   r.Owner,
			Name:    r.Name,
			TableID: objectID(r.Owner, r.Table),
			Type:    r.Type,
			Comment: r.Comment,
		})
		return nil
	})
}

func (a *Aggregator) constraints(ctx context.Context, owner string, st *aggregation) error {
	return each(a.reader.Constraints(ctx, owner), func(r ConstraintRow) error {
		c := &Constraint{
			ID:      objectID(r.Owner, r.Name),
			Name:    r.Name,
			TableID: objectID(r.Owner, r.TableName),
			Kind:    ConstraintKind(r.Type),
			Check:   r.SearchCondition,
		}
		if r.RefConstraint != "" {
			c.RefConstraint = objectID(r.RefOwner, r.RefConstraint)
		}
		st.constraints.add(c)
		return nil
	})
}

func (a *Aggregator) constraintColumns(ctx context.Context, owner string, st *aggregation) error {
	return groupBy(a.reader.ConstraintColumns(ctx, owner),
		func(r ConstraintColumnRow) string { return objectID(r.Owner, r.ConstraintName) },
		func(id string, rows []ConstraintColumnRow) error {
			c, ok := st.constraints.Lookup(id)
			if !ok {
				return newErrorf(KindResolution, "columns listed for unknown constraint %s", id)
			}
			for _, r := range rows {
				c.Columns = append(c.Columns, r.ColumnName)
			}
			return nil
		})
}

func (a *Aggregator) indexes(ctx context.Context, owner string, st *aggregation) error {
	return each(a.reader.Indexes(ctx, owner), func(r IndexRow) error {
		idx := &Index{
			ID:      objectID(r.Owner, r.Name),
			Owner:   r.Owner,
			Name:    r.Name,
			TableID: objectID(r.TableOwner, r.TableName),
			Type:    r.Type,
			Unique:  r.Uniqueness == "UNIQUE",
		}
		if _, dup := st.indexByID[idx.ID]; !dup {
			st.indexes = append(st.indexes, idx)
		}
		st.indexByID[idx.ID] = idx
		return nil
	})
}

func (a *Aggregator) indexColumns(ctx context.Context, owner string, st *aggregation) error {
	return groupBy(a.reader.IndexColumns(ctx, owner),
		func(r IndexColumnRow) string { return objectID(r.IndexOwner, r.IndexName) },
		func(id string, rows []IndexColumnRow) error {
			idx, ok := st.indexByID[id]
			if !ok {
				return newErrorf(KindResolution, "columns listed for unknown index %s", id)
			}
			for _, r := range rows {
				expr := r.ColumnName
				if r.Expression != nil && strings.TrimSpace(*r.Expression) != "" {
					expr = strings.TrimSpace(*r.Expression)
				}
				idx.Columns = append(idx.Columns, IndexColumn{Expression: expr, Descend: r.Descend})
			}
			return nil
		})
}

func (a *Aggregator) triggers(ctx context.Context, owner string, st *aggregation) error {
	return each(a.reader.Triggers(ctx, owner), func(r TriggerRow) error {
		st.triggers = append(st.triggers, &Trigger{
			ID:      objectID(r.Owner, r.Name),
			Owner:   r.Owner,
			Name:    r.Name,
			TableID: objectID(r.TableOwner, r.TableName),
			Type:    r.Type,
			Event:   r.Event,
		})
		return nil
	})
}

func (a *Aggregator) types(ctx context.Context, owner string, st *aggregation) error {
	return each(a.reader.Types(ctx, owner), func(r TypeRow) error {
		t := &UserType{
			ID:    objectID(r.Owner, r.Name),
			Owner: r.Owner,
			Name:  r.Name,
			Code:  r.Code,
		}
		switch r.Code {
		case "COLLECTION":
			t.Variant = TypeArray
		case "OBJECT":
			t.Variant = TypeObject
		}
		st.schema.addType(t)
		return nil
	})
}

func (a *Aggregator) lookupType(st *aggregation, id, what string) (*UserType, error) {
	t, ok := st.schema.Type(id)
	if !ok {
		return nil, newErrorf(KindResolution, "%s listed for unknown type %s", what, id)
	}
	return t, nil
}

func (a *Aggregator) collectionTypes(ctx context.Context, owner string, st *aggregation) error {
	return groupBy(a.reader.CollectionTypes(ctx, owner),
		func(r CollectionTypeRow) string { return objectID(r.Owner, r.TypeName) },
		func(id string, rows []CollectionTypeRow) error {
			t, err := a.lookupType(st, id, "collection")
			if err != nil {
				return err
			}
			r := rows[len(rows)-1]
			shape := &ArrayShape{
				CollectionType: r.CollType,
				UpperBound:     r.UpperBound,
				ElemTypeName:   r.ElemTypeName,
				ElemLength:     r.Length,
				ElemPrecision:  r.Precision,
				ElemScale:      r.Scale,
			}
			if r.ElemTypeOwner != "" {
				shape.ElemTypeID = objectID(r.ElemTypeOwner, r.ElemTypeName)
			}
			t.Array = shape
			t.Variant = TypeArray
			return nil
		})
}

func (a *Aggregator) typeAttributes(ctx context.Context, owner string, st *aggregation) error {
	return groupBy(a.reader.TypeAttributes(ctx, owner),
		func(r TypeAttributeRow) string { return objectID(r.Owner, r.TypeName) },
		func(id string, rows []TypeAttributeRow) error {
			t, err := a.lookupType(st, id, "attributes")
			if err != nil {
				return err
			}
			for _, r := range rows {
				attr := TypeAttribute{
					No:        r.No,
					Name:      r.Name,
					TypeName:  r.AttrType,
					Length:    r.Length,
					Precision: r.Precision,
					Scale:     r.Scale,
				}
				if r.TypeOwner != "" {
					attr.TypeID = objectID(r.TypeOwner, r.AttrType)
				}
				t.Attributes = append(t.Attributes, attr)
			}
			if t.Variant == TypeScalar {
				t.Variant = TypeObject
			}
			return nil
		})
}

func (a *Aggregator) typeMethods(ctx context.Context, owner string, st *aggregation) error {
	return groupBy(a.reader.TypeMethods(ctx, owner),
		func(r TypeMethodRow) string { return objectID(r.Owner, r.TypeName) },
		func(id string, rows []TypeMethodRow) error {
			t, err := a.lookupType(st, id, "methods")
			if err != nil {
				return err
			}
			for _, r := range rows {
				t.Methods = append(t.Methods, r.Name)
			}
			if t.Variant == TypeScalar {
				t.Variant = TypeObject
			}
			return nil
		})
}
