package main

import (
	"context"
	"database/sql"
	"iter"
	"strings"

	"github.com/pkg/errors"
)

// Catalog row types. Nullable text columns are read as empty strings;
// nullable numbers stay pointers because zero is a meaningful value.

type TableRow struct {
	Owner       string
	Name        string
	Comment     string
	Temporary   string
	IOTType     string
	Partitioned string
	Nested      string
}

type ViewRow struct {
	Owner   string
	Name    string
	Comment string
}

type ColumnRow struct {
	Owner         string
	TableName     string
	Name          string
	Comment       string
	DataType      string
	DataTypeOwner string
	DataLength    *int64
	Precision     *int64
	Scale         *int64
	Default       *string
	Nullable      string
	CharLength    *int64
	CharUsed      string
}

type ConstraintRow struct {
	Owner           string
	TableName       string
	Name            string
	Type            string
	SearchCondition string
	RefOwner        string
	RefConstraint   string
}

type ConstraintColumnRow struct {
	Owner          string
	ConstraintName string
	ColumnName     string
}

type IndexRow struct {
	Owner      string
	Name       string
	Type       string
	Uniqueness string
	TableOwner string
	TableName  string
}

type IndexColumnRow struct {
	IndexOwner string
	IndexName  string
	ColumnName string
	Descend    string
	Expression *string // default of the hidden virtual column behind a functional index
}

type TriggerRow struct {
	Owner      string
	Name       string
	Type       string
	Event      string
	TableOwner string
	TableName  string
}

type QueueRow struct {
	Owner   string
	Name    string
	Table   string
	Type    string
	Comment string
}

type TypeRow struct {
	Owner string
	Name  string
	Code  string
}

type CollectionTypeRow struct {
	Owner         string
	TypeName      string
	CollType      string
	UpperBound    *int64
	ElemTypeOwner string
	ElemTypeName  string
	Length        *int64
	Precision     *int64
	Scale         *int64
}

type TypeAttributeRow struct {
	Owner     string
	TypeName  string
	No        int64
	Name      string
	TypeOwner string
	AttrType  string
	Length    *int64
	Precision *int64
	Scale     *int64
}

type TypeMethodRow struct {
	Owner    string
	TypeName string
	No       int64
	Name     string
}

// CatalogReader streams catalog rows for one owner. Every stream is sorted
// by owner, object name and then sub-position, which is what the
// aggregator's streaming grouping relies on.
type CatalogReader interface {
	Tables(ctx context.Context, owner string) iter.Seq2[TableRow, error]
	Views(ctx context.Context, owner string) iter.Seq2[ViewRow, error]
	Columns(ctx context.Context, owner string) iter.Seq2[ColumnRow, error]
	Constraints(ctx context.Context, owner string) iter.Seq2[ConstraintRow, error]
	ConstraintColumns(ctx context.Context, owner string) iter.Seq2[ConstraintColumnRow, error]
	Indexes(ctx context.Context, owner string) iter.Seq2[IndexRow, error]
	IndexColumns(ctx context.Context, owner string) iter.Seq2[IndexColumnRow, error]
	Triggers(ctx context.Context, owner string) iter.Seq2[TriggerRow, error]
	Queues(ctx context.Context, owner string) iter.Seq2[QueueRow, error]
	Types(ctx context.Context, owner string) iter.Seq2[TypeRow, error]
	CollectionTypes(ctx context.Context, owner string) iter.Seq2[CollectionTypeRow, error]
	TypeAttributes(ctx context.Context, owner string) iter.Seq2[TypeAttributeRow, error]
	TypeMethods(ctx context.Context, owner string) iter.Seq2[TypeMethodRow, error]
}

// sqlCatalog reads the Oracle data dictionary, or a snapshot of it, over
// database/sql.
type sqlCatalog struct {
	db          *sql.DB
	views       CatalogViews
	placeholder string
}

func newSQLCatalog(db *sql.DB, views CatalogViews, placeholder string) *sqlCatalog {
	if views == nil {
		views = defaultCatalogViews()
	}
	return &sqlCatalog{db: db, views: views, placeholder: placeholder}
}

// query expands {all_xxx} view references and the {owner} placeholder.
func (c *sqlCatalog) query(tmpl string) string {
	pairs := make([]string, 0, 2*len(catalogViewDefs)+2)
	for _, d := range catalogViewDefs {
		pairs = append(pairs, "{"+d.Name+"}", c.views.Name(d.Name))
	}
	pairs = append(pairs, "{owner}", c.placeholder)
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// queryRows runs a catalog query bound to owner and yields scanned rows.
// Iteration stops at the first error.
func queryRows[T any](ctx context.Context, c *sqlCatalog, view, tmpl, owner string, scan func(*sql.Rows) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		rows, err := c.db.QueryContext(ctx, c.query(tmpl), owner)
		if err != nil {
			yield(zero, catalogError(err, "query", view))
			return
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				yield(zero, catalogError(err, "scan", view))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, catalogError(err, "read", view))
		}
	}
}

func catalogError(err error, op, view string) error {
	return &Error{Kind: KindCatalog, Message: "read catalog", Cause: errors.Wrapf(err, "%s %s", op, view)}
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

const tablesQuery = `
SELECT t.owner, t.table_name, c.comments, t.temporary, t.iot_type, t.partitioned, t.nested
  FROM {all_tables} t
  LEFT JOIN {all_tab_comments} c ON c.owner = t.owner AND c.table_name = t.table_name
 WHERE t.owner = UPPER({owner})
   AND t.table_name NOT LIKE 'BIN$%'
 ORDER BY t.owner, t.table_name`

func (c *sqlCatalog) Tables(ctx context.Context, owner string) iter.Seq2[TableRow, error] {
	return queryRows(ctx, c, "all_tables", tablesQuery, owner, func(rows *sql.Rows) (TableRow, error) {
		var r TableRow
		var comment, temporary, iot, partitioned, nested sql.NullString
		err := rows.Scan(&r.Owner, &r.Name, &comment, &temporary, &iot, &partitioned, &nested)
		r.Comment, r.Temporary, r.IOTType = comment.String, temporary.String, iot.String
		r.Partitioned, r.Nested = partitioned.String, nested.String
		return r, err
	})
}

const viewsQuery = `
SELECT v.owner, v.view_name, c.comments
  FROM {all_views} v
  LEFT JOIN {all_tab_comments} c ON c.owner = v.owner AND c.table_name = v.view_name
 WHERE v.owner = UPPER({owner})
   AND v.view_name NOT LIKE 'BIN$%'
 ORDER BY v.owner, v.view_name`

func (c *sqlCatalog) Views(ctx context.Context, owner string) iter.Seq2[ViewRow, error] {
	return queryRows(ctx, c, "all_views", viewsQuery, owner, func(rows *sql.Rows) (ViewRow, error) {
		var r ViewRow
		var comment sql.NullString
		err := rows.Scan(&r.Owner, &r.Name, &comment)
		r.Comment = comment.String
		return r, err
	})
}

const columnsQuery = `
SELECT t.owner, t.table_name, t.column_name, c.comments, t.data_type, t.data_type_owner,
       t.data_length, t.data_precision, t.data_scale, t.data_default, t.nullable,
       t.char_length, t.char_used
  FROM {all_tab_columns} t
  LEFT JOIN {all_col_comments} c
    ON c.owner = t.owner AND c.table_name = t.table_name AND c.column_name = t.column_name
 WHERE t.owner = UPPER({owner})
   AND t.table_name NOT LIKE 'BIN$%'
 ORDER BY t.owner, t.table_name, t.column_id`

func (c *sqlCatalog) Columns(ctx context.Context, owner string) iter.Seq2[ColumnRow, error] {
	return queryRows(ctx, c, "all_tab_columns", columnsQuery, owner, func(rows *sql.Rows) (ColumnRow, error) {
		var r ColumnRow
		var comment, typeOwner, nullable, charUsed sql.NullString
		var dflt sql.NullString
		var length, precision, scale, charLength sql.NullInt64
		err := rows.Scan(&r.Owner, &r.TableName, &r.Name, &comment, &r.DataType, &typeOwner,
			&length, &precision, &scale, &dflt, &nullable, &charLength, &charUsed)
		r.Comment, r.DataTypeOwner = comment.String, typeOwner.String
		r.Nullable, r.CharUsed = nullable.String, charUsed.String
		r.DataLength, r.Precision, r.Scale, r.CharLength = nullInt(length), nullInt(precision), nullInt(scale), nullInt(charLength)
		r.Default = nullStr(dflt)
		return r, err
	})
}

const constraintsQuery = `
SELECT c.owner, c.table_name, c.constraint_name, c.constraint_type, c.search_condition,
       c.r_owner, c.r_constraint_name
  FROM {all_constraints} c
 WHERE c.owner = UPPER({owner})
   AND c.constraint_name NOT LIKE 'BIN$%'
   AND c.table_name NOT LIKE 'BIN$%'
 ORDER BY c.owner, c.table_name, c.constraint_name`

func (c *sqlCatalog) Constraints(ctx context.Context, owner string) iter.Seq2[ConstraintRow, error] {
	return queryRows(ctx, c, "all_constraints", constraintsQuery, owner, func(rows *sql.Rows) (ConstraintRow, error) {
		var r ConstraintRow
		var cond, refOwner, refName sql.NullString
		err := rows.Scan(&r.Owner, &r.TableName, &r.Name, &r.Type, &cond, &refOwner, &refName)
		r.SearchCondition, r.RefOwner, r.RefConstraint = cond.String, refOwner.String, refName.String
		return r, err
	})
}

const constraintColumnsQuery = `
SELECT cc.owner, cc.constraint_name, cc.column_name
  FROM {all_cons_columns} cc
 WHERE cc.owner = UPPER({owner})
   AND cc.constraint_name NOT LIKE 'BIN$%'
   AND cc.table_name NOT LIKE 'BIN$%'
 ORDER BY cc.owner, cc.table_name, cc.constraint_name, cc.position`

func (c *sqlCatalog) ConstraintColumns(ctx context.Context, owner string) iter.Seq2[ConstraintColumnRow, error] {
	return queryRows(ctx, c, "all_cons_columns", constraintColumnsQuery, owner, func(rows *sql.Rows) (ConstraintColumnRow, error) {
		var r ConstraintColumnRow
		err := rows.Scan(&r.Owner, &r.ConstraintName, &r.ColumnName)
		return r, err
	})
}

const indexesQuery = `
SELECT i.owner, i.index_name, i.index_type, i.uniqueness, i.table_owner, i.table_name
  FROM {all_indexes} i
 WHERE i.table_owner = UPPER({owner})
   AND i.table_type = 'TABLE'
   AND i.table_name NOT LIKE 'BIN$%'
   AND i.index_name NOT LIKE 'BIN$%'
 ORDER BY i.table_owner, i.table_name, i.owner, i.index_name`

func (c *sqlCatalog) Indexes(ctx context.Context, owner string) iter.Seq2[IndexRow, error] {
	return queryRows(ctx, c, "all_indexes", indexesQuery, owner, func(rows *sql.Rows) (IndexRow, error) {
		var r IndexRow
		err := rows.Scan(&r.Owner, &r.Name, &r.Type, &r.Uniqueness, &r.TableOwner, &r.TableName)
		return r, err
	})
}

const indexColumnsQuery = `
SELECT ic.index_owner, ic.index_name, ic.column_name, ic.descend, tc.data_default
  FROM {all_indexes} i
  JOIN {all_ind_columns} ic ON ic.index_owner = i.owner AND ic.index_name = i.index_name
  LEFT JOIN {all_tab_cols} tc
    ON tc.owner = ic.table_owner AND tc.table_name = ic.table_name
   AND tc.column_name = ic.column_name AND tc.virtual_column = 'YES'
 WHERE i.table_owner = UPPER({owner})
   AND i.table_type = 'TABLE'
   AND i.table_name NOT LIKE 'BIN$%'
   AND i.index_name NOT LIKE 'BIN$%'
 ORDER BY i.table_owner, i.table_name, i.owner, i.index_name, ic.column_position`

func (c *sqlCatalog) IndexColumns(ctx context.Context, owner string) iter.Seq2[IndexColumnRow, error] {
	return queryRows(ctx, c, "all_ind_columns", indexColumnsQuery, owner, func(rows *sql.Rows) (IndexColumnRow, error) {
		var r IndexColumnRow
		var descend, expr sql.NullString
		err := rows.Scan(&r.IndexOwner, &r.IndexName, &r.ColumnName, &descend, &expr)
		r.Descend = descend.String
		r.Expression = nullStr(expr)
		return r, err
	})
}

const triggersQuery = `
SELECT t.owner, t.trigger_name, t.trigger_type, t.triggering_event, t.table_owner, t.table_name
  FROM {all_triggers} t
 WHERE t.table_owner = UPPER({owner})
   AND t.base_object_type IN ('TABLE', 'VIEW')
   AND t.table_name IS NOT NULL
   AND t.table_name NOT LIKE 'BIN$%'
   AND t.trigger_name NOT LIKE 'BIN$%'
 ORDER BY t.table_owner, t.table_name, t.owner, t.trigger_name`

func (c *sqlCatalog) Triggers(ctx context.Context, owner string) iter.Seq2[TriggerRow, error] {
	return queryRows(ctx, c, "all_triggers", triggersQuery, owner, func(rows *sql.Rows) (TriggerRow, error) {
		var r TriggerRow
		var typ, event sql.NullString
		err := rows.Scan(&r.Owner, &r.Name, &typ, &event, &r.TableOwner, &r.TableName)
		r.Type, r.Event = typ.String, event.String
		return r, err
	})
}

const queuesQuery = `
SELECT q.owner, q.name, q.queue_table, q.queue_type, q.user_comment
  FROM {all_queues} q
 WHERE q.owner = UPPER({owner})
 ORDER BY q.owner, q.name`

func (c *sqlCatalog) Queues(ctx context.Context, owner string) iter.Seq2[QueueRow, error] {
	return queryRows(ctx, c, "all_queues", queuesQuery, owner, func(rows *sql.Rows) (QueueRow, error) {
		var r QueueRow
		var typ, comment sql.NullString
		err := rows.Scan(&r.Owner, &r.Name, &r.Table, &typ, &comment)
		r.Type, r.Comment = typ.String, strings.TrimSpace(comment.String)
		return r, err
	})
}

const typesQuery = `
SELECT t.owner, t.type_name, t.typecode
  FROM {all_types} t
 WHERE t.owner = UPPER({owner})
 ORDER BY t.owner, t.type_name`

func (c *sqlCatalog) Types(ctx context.Context, owner string) iter.Seq2[TypeRow, error] {
	return queryRows(ctx, c, "all_types", typesQuery, owner, func(rows *sql.Rows) (TypeRow, error) {
		var r TypeRow
		var code sql.NullString
		err := rows.Scan(&r.Owner, &r.Name, &code)
		r.Code = code.String
		return r, err
	})
}

const collectionTypesQuery = `
SELECT t.owner, t.type_name, t.coll_type, t.upper_bound, t.elem_type_owner, t.elem_type_name,
       t.length, t.precision, t.scale
  FROM {all_coll_types} t
 WHERE t.owner = UPPER({owner})
 ORDER BY t.owner, t.type_name`

func (c *sqlCatalog) CollectionTypes(ctx context.Context, owner string) iter.Seq2[CollectionTypeRow, error] {
	return queryRows(ctx, c, "all_coll_types", collectionTypesQuery, owner, func(rows *sql.Rows) (CollectionTypeRow, error) {
		var r CollectionTypeRow
		var elemOwner, elemName sql.NullString
		var bound, length, precision, scale sql.NullInt64
		err := rows.Scan(&r.Owner, &r.TypeName, &r.CollType, &bound, &elemOwner, &elemName,
			&length, &precision, &scale)
		r.ElemTypeOwner, r.ElemTypeName = elemOwner.String, elemName.String
		r.UpperBound, r.Length, r.Precision, r.Scale = nullInt(bound), nullInt(length), nullInt(precision), nullInt(scale)
		return r, err
	})
}

const typeAttributesQuery = `
SELECT t.owner, t.type_name, t.attr_no, t.attr_name, t.attr_type_owner, t.attr_type_name,
       t.length, t.precision, t.scale
  FROM {all_type_attrs} t
 WHERE t.owner = UPPER({owner})
 ORDER BY t.owner, t.type_name, t.attr_no`

func (c *sqlCatalog) TypeAttributes(ctx context.Context, owner string) iter.Seq2[TypeAttributeRow, error] {
	return queryRows(ctx, c, "all_type_attrs", typeAttributesQuery, owner, func(rows *sql.Rows) (TypeAttributeRow, error) {
		var r TypeAttributeRow
		var typeOwner, attrType sql.NullString
		var length, precision, scale sql.NullInt64
		err := rows.Scan(&r.Owner, &r.TypeName, &r.No, &r.Name, &typeOwner, &attrType,
			&length, &precision, &scale)
		r.TypeOwner, r.AttrType = typeOwner.String, attrType.String
		r.Length, r.Precision, r.Scale = nullInt(length), nullInt(precision), nullInt(scale)
		return r, err
	})
}

const typeMethodsQuery = `
SELECT t.owner, t.type_name, t.method_no, t.method_name
  FROM {all_type_methods} t
 WHERE t.owner = UPPER({owner})
 ORDER BY t.owner, t.type_name, t.method_no`

func (c *sqlCatalog) TypeMethods(ctx context.Context, owner string) iter.Seq2[TypeMethodRow, error] {
	return queryRows(ctx, c, "all_type_methods", typeMethodsQuery, owner, func(rows *sql.Rows) (TypeMethodRow, error) {
		var r TypeMethodRow
		err := rows.Scan(&r.Owner, &r.TypeName, &r.No, &r.Name)
		return r, err
	})
}
