package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilters_Query(t *testing.T) {
	no := false
	yes := true

	tests := []struct {
		name   string
		f      Filters
		locked bool
		want   string
	}{
		{name: "empty", want: ""},
		{name: "locked only", locked: true, want: "locked=true"},
		{
			name: "everything",
			f: Filters{
				Search: "milk", Sort: "az", Tag: "home", Favorite: &yes, Completed: &no,
				IncludeArchived: &no, IncludeDeleted: true, Limit: 5, Offset: 10,
			},
			want: "completed=false&favorite=true&include_archived=false&include_deleted=true&limit=5&offset=10&search=milk&sort=az&tag=home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Query(tt.locked).Encode())
		})
	}
}

func TestTask_Locked(t *testing.T) {
	yes := true
	assert.False(t, (&Task{}).Locked())
	assert.True(t, (&Task{IsLocked: &yes}).Locked())
}
