package paginator

// PaginateSlice returns the page of slice selected by query.
func PaginateSlice[T any](slice []T, query PaginateQuery) ([]T, Paginator) {
	query.Adjust()

	total := int64(len(slice))
	meta := Paginator{
		Total:       total,
		PerPage:     query.Limit,
		CurrentPage: query.Page,
	}

	start := query.Offset()
	if start >= total {
		return []T{}, meta
	}
	end := min(start+query.Limit, total)

	page := slice[start:end]
	meta.Count = int64(len(page))
	return page, meta
}
