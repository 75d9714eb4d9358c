package store

import (
	"strings"

	model "go_mock_panel/internal/domain/model/mock"

	"golang.org/x/text/cases"
)

// FilteredView returns the mocks of the selected folder (all folders when
// none is selected) whose path or method contains search, ignoring case.
// It depends on nothing but its arguments.
func FilteredView(mocks []model.Mock, selected, search string) []model.Mock {
	fold := cases.Fold()
	needle := fold.String(search)

	out := []model.Mock{}
	for _, m := range mocks {
		if selected != "" && m.Folder != selected {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(m.Path), needle) &&
			!strings.Contains(fold.String(string(m.Method)), needle) {
			continue
		}
		out = append(out, m.Clone())
	}
	return out
}

// FilteredView applies FilteredView to the state's own inputs.
func (s State) FilteredView() []model.Mock {
	return FilteredView(s.Mocks, s.Selected, s.Search)
}
