package calendar

import "github.com/ssewanyana/groupcal/internal/model"

// Page is one fixed-size slice of the ordered event list. StartIndex and
// EndIndex are 1-based and inclusive; both are 0 for an empty page.
type Page struct {
	Items      []model.CalendarEvent
	PageNumber int
	PageSize   int
	TotalCount int
	TotalPages int
	StartIndex int
	EndIndex   int
}

// Paginate slices an ordered event list. pageNumber is 1-based; a page
// beyond the end yields an empty Items, never an error, because a filter
// change can shrink the result set out from under a previously valid page.
// TotalPages is 0 for an empty list so "no results" and "one empty page"
// stay distinguishable.
func Paginate(events []model.CalendarEvent, pageSize, pageNumber int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageNumber < 1 {
		pageNumber = 1
	}

	total := len(events)
	totalPages := (total + pageSize - 1) / pageSize

	page := Page{
		Items:      []model.CalendarEvent{},
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}

	start := (pageNumber - 1) * pageSize
	if start >= total {
		return page
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	page.Items = events[start:end]
	page.StartIndex = start + 1
	page.EndIndex = end
	return page
}
