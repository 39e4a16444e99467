package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBOrdering(t *testing.T) {
	tests := []struct {
		ord    DBOrdering
		column string
		clause string
	}{
		{DBOrdering{Field: "name", Ascending: true}, "name", `"name" ASC`},
		{DBOrdering{Field: "Name"}, "name", `"name" DESC`},
		{DBOrdering{Field: "createdAt"}, "created_at", `"created_at" DESC`},
		{DBOrdering{Field: "created_at", Ascending: true}, "created_at", `"created_at" ASC`},
		{DBOrdering{Field: "lastLogin"}, "last_login", `"last_login" DESC`},
	}
	for _, tt := range tests {
		t.Run(tt.ord.Field, func(t *testing.T) {
			assert.Equal(t, tt.column, tt.ord.Column())
			assert.Equal(t, tt.clause, tt.ord.String())
		})
	}
}
