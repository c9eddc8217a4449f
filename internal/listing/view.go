package listing

import (
	"product-catalog-admin/internal/domain"
	"product-catalog-admin/internal/form"
)

// View is a consistent snapshot of everything the UI renders.
type View struct {
	Products            []domain.Product  `json:"products"` // current page
	Categories          []domain.Category `json:"categories"`
	FilteredCount       int               `json:"filteredCount"`
	TotalCount          int               `json:"totalCount"`
	SearchTerm          string            `json:"searchTerm"`
	DebouncedSearchTerm string            `json:"debouncedSearchTerm"`
	CurrentPage         int               `json:"currentPage"`
	TotalPages          int               `json:"totalPages"`
	Pages               []int             `json:"pages"`
	ViewMode            ViewMode          `json:"viewMode"`
	Loading             bool              `json:"loading"`
	Saving              bool              `json:"saving"`
	Error               string            `json:"error,omitempty"`
	Form                *FormView         `json:"form,omitempty"`
}

// FormView is the open create/edit form.
type FormView struct {
	Editing bool        `json:"editing"`
	Draft   form.Draft  `json:"draft"`
	Errors  form.Errors `json:"errors"`
}

// HasPrev reports whether a previous page exists.
func (v View) HasPrev() bool { return v.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (v View) HasNext() bool { return v.CurrentPage < v.TotalPages }

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := Filter(c.products, c.debounced)
	total := TotalPages(len(filtered), c.perPage)
	v := View{
		Products:            Paginate(filtered, c.page, c.perPage),
		Categories:          append([]domain.Category(nil), c.categories...),
		FilteredCount:       len(filtered),
		TotalCount:          len(c.products),
		SearchTerm:          c.search,
		DebouncedSearchTerm: c.debounced,
		CurrentPage:         c.page,
		TotalPages:          total,
		Pages:               PageWindow(c.page, total),
		ViewMode:            c.mode,
		Loading:             c.loading,
		Saving:              c.saving,
		Error:               c.err,
	}
	if c.form != nil {
		errs := make(form.Errors, len(c.form.Errors))
		for k, msg := range c.form.Errors {
			errs[k] = msg
		}
		v.Form = &FormView{
			Editing: c.form.IsEditing(),
			Draft:   c.form.Draft,
			Errors:  errs,
		}
	}
	return v
}
