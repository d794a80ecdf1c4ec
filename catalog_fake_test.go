package main

import (
	"context"
	"iter"
)

// fakeCatalog serves canned rows in the order given.
type fakeCatalog struct {
	tables            []TableRow
	views             []ViewRow
	columns           []ColumnRow
	constraints       []ConstraintRow
	constraintColumns []ConstraintColumnRow
	indexes           []IndexRow
	indexColumns      []IndexColumnRow
	triggers          []TriggerRow
	queues            []QueueRow
	types             []TypeRow
	collectionTypes   []CollectionTypeRow
	typeAttributes    []TypeAttributeRow
	typeMethods       []TypeMethodRow

	failOn string // stream name that yields failErr
	failErr error
}

func fakeSeq[T any](f *fakeCatalog, name string, rows []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if f.failOn == name {
			var zero T
			yield(zero, f.failErr)
			return
		}
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (f *fakeCatalog) Tables(context.Context, string) iter.Seq2[TableRow, error] {
	return fakeSeq(f, "tables", f.tables)
}

func (f *fakeCatalog) Views(context.Context, string) iter.Seq2[ViewRow, error] {
	return fakeSeq(f, "views", f.views)
}

func (f *fakeCatalog) Columns(context.Context, string) iter.Seq2[ColumnRow, error] {
	return fakeSeq(f, "columns", f.columns)
}

func (f *fakeCatalog) Constraints(context.Context, string) iter.Seq2[ConstraintRow, error] {
	return fakeSeq(f, "constraints", f.constraints)
}

func (f *fakeCatalog) ConstraintColumns(context.Context, string) iter.Seq2[ConstraintColumnRow, error] {
	return fakeSeq(f, "constraint columns", f.constraintColumns)
}

func (f *fakeCatalog) Indexes(context.Context, string) iter.Seq2[IndexRow, error] {
	return fakeSeq(f, "indexes", f.indexes)
}

func (f *fakeCatalog) IndexColumns(context.Context, string) iter.Seq2[IndexColumnRow, error] {
	return fakeSeq(f, "index columns", f.indexColumns)
}

func (f *fakeCatalog) Triggers(context.Context, string) iter.Seq2[TriggerRow, error] {
	return fakeSeq(f, "triggers", f.triggers)
}

func (f *fakeCatalog) Queues(context.Context, string) iter.Seq2[QueueRow, error] {
	return fakeSeq(f, "queues", f.queues)
}

func (f *fakeCatalog) Types(context.Context, string) iter.Seq2[TypeRow, error] {
	return fakeSeq(f, "types", f.types)
}

func (f *fakeCatalog) CollectionTypes(context.Context, string) iter.Seq2[CollectionTypeRow, error] {
	return fakeSeq(f, "collection types", f.collectionTypes)
}

func (f *fakeCatalog) TypeAttributes(context.Context, string) iter.Seq2[TypeAttributeRow, error] {
	return fakeSeq(f, "type attributes", f.typeAttributes)
}

func (f *fakeCatalog) TypeMethods(context.Context, string) iter.Seq2[TypeMethodRow, error] {
	return fakeSeq(f, "type methods", f.typeMethods)
}

func i64(v int64) *int64 { return &v }

func sptr(s string) *string { return &s }

// hrCatalog is a small HR schema: DEPARTMENTS, EMPLOYEES with a primary key,
// a foreign key to DEPARTMENTS, a synthetic NOT NULL check, a user check and
// a unique key, plus a view, indexes, a trigger, a queue and two types.
func hrCatalog() *fakeCatalog {
	return &fakeCatalog{
		tables: []TableRow{
			{Owner: "HR", Name: "DEPARTMENTS", Comment: "Departments", Temporary: "N", Partitioned: "NO", Nested: "NO"},
			{Owner: "HR", Name: "EMPLOYEES", Comment: "Employees", Temporary: "N", IOTType: "", Partitioned: "YES", Nested: "NO"},
			{Owner: "HR", Name: "EVENTS_QT", Temporary: "N", Partitioned: "NO", Nested: "NO"},
			{Owner: "HR", Name: "PHONES_NT", Temporary: "N", Partitioned: "NO", Nested: "YES"},
		},
		views: []ViewRow{
			{Owner: "HR", Name: "EMP_V", Comment: "Employee view"},
		},
		columns: []ColumnRow{
			{Owner: "HR", TableName: "DEPARTMENTS", Name: "DEPARTMENT_ID", DataType: "NUMBER", DataLength: i64(22), Precision: i64(4), Scale: i64(0), Nullable: "N"},
			{Owner: "HR", TableName: "DEPARTMENTS", Name: "DEPARTMENT_NAME", DataType: "VARCHAR2", DataLength: i64(120), Nullable: "N", CharLength: i64(30), CharUsed: "C"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "EMPLOYEE_ID", Comment: "Primary key", DataType: "NUMBER", DataLength: i64(22), Precision: i64(6), Scale: i64(0), Nullable: "N"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "LAST_NAME", DataType: "VARCHAR2", DataLength: i64(25), Nullable: "N", CharLength: i64(25), CharUsed: "B"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "DEPARTMENT_ID", DataType: "NUMBER", DataLength: i64(22), Precision: i64(4), Scale: i64(0), Nullable: "Y"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "STATUS", DataType: "VARCHAR2", DataLength: i64(10), Default: sptr("'ACTIVE' \n"), Nullable: "Y", CharLength: i64(10), CharUsed: "B"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "PHONES", DataType: "PHONE_LIST", DataTypeOwner: "HR", Nullable: "Y"},
			{Owner: "HR", TableName: "EMP_V", Name: "EMPLOYEE_ID", DataType: "NUMBER", DataLength: i64(22), Nullable: "N"},
			{Owner: "HR", TableName: "EVENTS_QT", Name: "PAYLOAD", DataType: "XMLTYPE", DataTypeOwner: "SYS", Nullable: "Y"},
			{Owner: "HR", TableName: "SYS_CLUSTER", Name: "ID", DataType: "NUMBER", Nullable: "N"},
		},
		constraints: []ConstraintRow{
			{Owner: "HR", TableName: "DEPARTMENTS", Name: "DEPT_PK", Type: "P"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "EMP_FK", Type: "R", RefOwner: "HR", RefConstraint: "DEPT_PK"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "EMP_NAME_UK", Type: "U"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "EMP_PK", Type: "P"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "EMP_STATUS_CK", Type: "C", SearchCondition: "STATUS IN ('ACTIVE', 'LEFT')"},
			{Owner: "HR", TableName: "EMPLOYEES", Name: "SYS_C0011", Type: "C", SearchCondition: `"LAST_NAME" IS NOT NULL`},
			{Owner: "HR", TableName: "EMP_V", Name: "SYS_C0012", Type: "O"},
		},
		constraintColumns: []ConstraintColumnRow{
			{Owner: "HR", ConstraintName: "DEPT_PK", ColumnName: "DEPARTMENT_ID"},
			{Owner: "HR", ConstraintName: "EMP_FK", ColumnName: "DEPARTMENT_ID"},
			{Owner: "HR", ConstraintName: "EMP_NAME_UK", ColumnName: "LAST_NAME"},
			{Owner: "HR", ConstraintName: "EMP_NAME_UK", ColumnName: "DEPARTMENT_ID"},
			{Owner: "HR", ConstraintName: "EMP_PK", ColumnName: "EMPLOYEE_ID"},
			{Owner: "HR", ConstraintName: "EMP_STATUS_CK", ColumnName: "STATUS"},
			{Owner: "HR", ConstraintName: "SYS_C0011", ColumnName: "LAST_NAME"},
		},
		indexes: []IndexRow{
			{Owner: "HR", Name: "DEPT_PK", Type: "NORMAL", Uniqueness: "UNIQUE", TableOwner: "HR", TableName: "DEPARTMENTS"},
			{Owner: "HR", Name: "EMP_DEPT_IX", Type: "NORMAL", Uniqueness: "NONUNIQUE", TableOwner: "HR", TableName: "EMPLOYEES"},
			{Owner: "HR", Name: "EMP_PK", Type: "NORMAL", Uniqueness: "UNIQUE", TableOwner: "HR", TableName: "EMPLOYEES"},
			{Owner: "HR", Name: "EMP_UPPER_IX", Type: "FUNCTION-BASED NORMAL", Uniqueness: "NONUNIQUE", TableOwner: "HR", TableName: "EMPLOYEES"},
		},
		indexColumns: []IndexColumnRow{
			{IndexOwner: "HR", IndexName: "DEPT_PK", ColumnName: "DEPARTMENT_ID", Descend: "ASC"},
			{IndexOwner: "HR", IndexName: "EMP_DEPT_IX", ColumnName: "DEPARTMENT_ID", Descend: "DESC"},
			{IndexOwner: "HR", IndexName: "EMP_DEPT_IX", ColumnName: "EMPLOYEE_ID", Descend: "ASC"},
			{IndexOwner: "HR", IndexName: "EMP_PK", ColumnName: "EMPLOYEE_ID", Descend: "ASC"},
			{IndexOwner: "HR", IndexName: "EMP_UPPER_IX", ColumnName: "SYS_NC00006$", Descend: "ASC", Expression: sptr(`UPPER("LAST_NAME") `)},
		},
		triggers: []TriggerRow{
			{Owner: "HR", Name: "EMP_BIU", Type: "BEFORE EACH ROW", Event: "INSERT OR UPDATE", TableOwner: "HR", TableName: "EMPLOYEES"},
			{Owner: "HR", Name: "EMP_V_IOT", Type: "INSTEAD OF", Event: "INSERT", TableOwner: "HR", TableName: "EMP_V"},
		},
		queues: []QueueRow{
			{Owner: "HR", Name: "EVENTS_Q", Table: "EVENTS_QT", Type: "NORMAL_QUEUE", Comment: "Outbound events"},
		},
		types: []TypeRow{
			{Owner: "HR", Name: "PHONE_LIST", Code: "COLLECTION"},
			{Owner: "HR", Name: "PHONE_T", Code: "OBJECT"},
		},
		collectionTypes: []CollectionTypeRow{
			{Owner: "HR", TypeName: "PHONE_LIST", CollType: "VARYING ARRAY", UpperBound: i64(5), ElemTypeOwner: "HR", ElemTypeName: "PHONE_T"},
		},
		typeAttributes: []TypeAttributeRow{
			{Owner: "HR", TypeName: "PHONE_T", No: 1, Name: "KIND", AttrType: "VARCHAR2", Length: i64(10)},
			{Owner: "HR", TypeName: "PHONE_T", No: 2, Name: "NUM", AttrType: "VARCHAR2", Length: i64(20)},
		},
		typeMethods: []TypeMethodRow{
			{Owner: "HR", TypeName: "PHONE_T", No: 1, Name: "FORMATTED"},
		},
	}
}
