package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// viewColumn is one column of a catalog view that oradoc reads.
type viewColumn struct {
	Name    string
	Numeric bool
}

// catalogView describes a logical catalog view: the columns the reader uses
// and the column the owner filter applies to. Snapshots store exactly these.
type catalogView struct {
	Name     string
	OwnerCol string
	Columns  []viewColumn
}

func strCols(names ...string) []viewColumn {
	cols := make([]viewColumn, len(names))
	for i, n := range names {
		cols[i] = viewColumn{Name: n}
	}
	return cols
}

func num(name string) viewColumn { return viewColumn{Name: name, Numeric: true} }
func str(name string) viewColumn { return viewColumn{Name: name} }

// catalogViewDefs lists every catalog view the reader touches, in the order
// the snapshot exporter copies them.
var catalogViewDefs = []catalogView{
	{Name: "all_tables", OwnerCol: "owner",
		Columns: strCols("owner", "table_name", "temporary", "iot_type", "partitioned", "nested")},
	{Name: "all_tab_comments", OwnerCol: "owner",
		Columns: strCols("owner", "table_name", "comments")},
	{Name: "all_views", OwnerCol: "owner",
		Columns: strCols("owner", "view_name")},
	{Name: "all_tab_columns", OwnerCol: "owner",
		Columns: []viewColumn{
			str("owner"), str("table_name"), str("column_name"), num("column_id"),
			str("data_type"), str("data_type_owner"), num("data_length"), num("data_precision"),
			num("data_scale"), str("data_default"), str("nullable"), num("char_length"), str("char_used"),
		}},
	{Name: "all_tab_cols", OwnerCol: "owner",
		Columns: strCols("owner", "table_name", "column_name", "data_default", "virtual_column")},
	{Name: "all_col_comments", OwnerCol: "owner",
		Columns: strCols("owner", "table_name", "column_name", "comments")},
	{Name: "all_constraints", OwnerCol: "owner",
		Columns: strCols("owner", "table_name", "constraint_name", "constraint_type",
			"search_condition", "r_owner", "r_constraint_name")},
	{Name: "all_cons_columns", OwnerCol: "owner",
		Columns: []viewColumn{
			str("owner"), str("table_name"), str("constraint_name"), str("column_name"), num("position"),
		}},
	{Name: "all_indexes", OwnerCol: "table_owner",
		Columns: strCols("owner", "index_name", "index_type", "uniqueness",
			"table_owner", "table_name", "table_type")},
	{Name: "all_ind_columns", OwnerCol: "table_owner",
		Columns: []viewColumn{
			str("index_owner"), str("index_name"), str("table_owner"), str("table_name"),
			str("column_name"), num("column_position"), str("descend"),
		}},
	{Name: "all_triggers", OwnerCol: "table_owner",
		Columns: strCols("owner", "trigger_name", "trigger_type", "triggering_event",
			"table_owner", "table_name", "base_object_type")},
	{Name: "all_queues", OwnerCol: "owner",
		Columns: strCols("owner", "name", "queue_table", "queue_type", "user_comment")},
	{Name: "all_types", OwnerCol: "owner",
		Columns: strCols("owner", "type_name", "typecode")},
	{Name: "all_coll_types", OwnerCol: "owner",
		Columns: []viewColumn{
			str("owner"), str("type_name"), str("coll_type"), num("upper_bound"),
			str("elem_type_owner"), str("elem_type_name"), num("length"), num("precision"), num("scale"),
		}},
	{Name: "all_type_attrs", OwnerCol: "owner",
		Columns: []viewColumn{
			str("owner"), str("type_name"), num("attr_no"), str("attr_name"), str("attr_type_owner"),
			str("attr_type_name"), num("length"), num("precision"), num("scale"),
		}},
	{Name: "all_type_methods", OwnerCol: "owner",
		Columns: []viewColumn{str("owner"), str("type_name"), num("method_no"), str("method_name")}},
}

// CatalogViews maps a logical catalog view name (all_tables, ...) to the
// view or table actually queried.
type CatalogViews map[string]string

func defaultCatalogViews() CatalogViews {
	v := make(CatalogViews, len(catalogViewDefs))
	for _, d := range catalogViewDefs {
		v[d.Name] = d.Name
	}
	return v
}

// Name returns the concrete name for a logical view.
func (v CatalogViews) Name(logical string) string {
	if n, ok := v[logical]; ok && n != "" {
		return n
	}
	return logical
}

// withOverrides returns a copy with explicit overrides applied. Unknown
// logical names are rejected.
func (v CatalogViews) withOverrides(overrides map[string]string) (CatalogViews, error) {
	out := make(CatalogViews, len(v))
	for k, n := range v {
		out[k] = n
	}
	for k, n := range overrides {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, ok := out[key]; !ok {
			return nil, configErrorf("unknown catalog view %q", k)
		}
		if strings.TrimSpace(n) == "" {
			return nil, configErrorf("catalog view %q mapped to empty name", k)
		}
		out[key] = strings.TrimSpace(n)
	}
	return out, nil
}

// dbaViewName turns all_tables into dba_tables.
func dbaViewName(logical string) string {
	return "dba" + strings.TrimPrefix(logical, "all")
}

// probeDBAViews switches every logical view whose dba_* counterpart is
// visible to the connected user. Views the user cannot see keep all_*.
func probeDBAViews(ctx context.Context, db *sql.DB, views CatalogViews) (CatalogViews, error) {
	names := make([]string, 0, len(catalogViewDefs))
	for _, d := range catalogViewDefs {
		names = append(names, "'"+strings.ToUpper(dbaViewName(d.Name))+"'")
	}
	query := fmt.Sprintf(
		"select lower(view_name) from all_views where view_name in (%s)",
		strings.Join(names, ", "),
	)

	var visible []string
	if err := collectStringRows(ctx, db, query, &visible); err != nil {
		return nil, wrapErrorf(err, KindCatalog, "probe dba views")
	}

	out := make(CatalogViews, len(views))
	for k, n := range views {
		out[k] = n
	}
	for _, dba := range visible {
		out["all"+strings.TrimPrefix(dba, "dba")] = dba
	}
	return out, nil
}
