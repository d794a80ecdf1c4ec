package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  newErrorf(KindResolution, "constraint %s not found", "DEPT_PK"),
			want: "resolution: constraint DEPT_PK not found",
		},
		{
			name: "with cause",
			err:  wrapErrorf(errors.New("ORA-00942"), KindCatalog, "query all_tables"),
			want: "catalog: query all_tables: ORA-00942",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsKind(t *testing.T) {
	inner := newErrorf(KindMessageNotFound, "no message")
	outer := wrapErrorf(inner, KindCatalog, "render")
	wrapped := fmt.Errorf("run: %w", outer)

	assert.True(t, IsKind(wrapped, KindCatalog))
	assert.True(t, IsKind(wrapped, KindMessageNotFound))
	assert.False(t, IsKind(wrapped, KindResolution))
	assert.False(t, IsKind(errors.New("plain"), KindResolution))
	assert.False(t, IsKind(nil, KindResolution))
}
