package store

import (
	"testing"

	model "go_mock_panel/internal/domain/model/mock"

	"github.com/stretchr/testify/assert"
)

func ids(mocks []model.Mock) []string {
	out := make([]string, 0, len(mocks))
	for _, m := range mocks {
		out = append(out, m.ID)
	}
	return out
}

func TestFilteredView(t *testing.T) {
	mocks := seededState().Mocks

	tests := []struct {
		name     string
		selected string
		search   string
		want     []string
	}{
		{name: "folder only", selected: "Users", want: []string{"u1", "u2", "u3"}},
		{name: "all folders", want: []string{"u1", "o1", "u2", "b1", "u3"}},
		{name: "path substring", selected: "Users", search: "users/", want: []string{"u2", "u3"}},
		{name: "path case insensitive", search: "API/INVOICES", want: []string{"b1"}},
		{name: "method match", search: "post", want: []string{"o1"}},
		{name: "method within folder", selected: "Users", search: "Del", want: []string{"u2"}},
		{name: "search across folders", search: "get", want: []string{"u1", "b1"}},
		{name: "no hit", selected: "Orders", search: "users", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilteredView(mocks, tt.selected, tt.search)))
		})
	}
}

func TestFilteredViewIsPure(t *testing.T) {
	st := seededState().WithSearch("api")
	before := st.Clone()

	first := st.FilteredView()
	second := st.FilteredView()
	assert.Equal(t, first, second)
	assert.Equal(t, before, st)

	first[0].Path = "/changed"
	assert.NotEqual(t, "/changed", st.Mocks[0].Path)
}
