package query

// PageMetadata is the paging block of a report result.
type PageMetadata struct {
	Total      int `json:"total"`
	Page       int `json:"current_page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	StartItem  int `json:"start"`
	EndItem    int `json:"end"`
}

// ResolveTotal picks which total drives pagination. The precomputed summary
// total is authoritative only when the request carries no filter at all; any
// active search or categorical filter makes the freshly counted filtered
// total authoritative. A negative summaryTotal means no summary is available.
func ResolveTotal(spec FilterSpec, summaryTotal, filteredTotal int) int {
	if !spec.HasFilters() && summaryTotal >= 0 {
		return summaryTotal
	}
	return filteredTotal
}

// Paginate computes page metadata, clamping page into [1, totalPages].
func Paginate(total, page, pageSize int) PageMetadata {
	if pageSize < 1 {
		pageSize = 10
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	meta := PageMetadata{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}

	if total == 0 {
		return meta
	}

	meta.StartItem = (page-1)*pageSize + 1
	meta.EndItem = page * pageSize
	if meta.EndItem > total {
		meta.EndItem = total
	}
	return meta
}

// Offset translates page metadata into the page query offset.
func (m PageMetadata) Offset() int {
	return (m.Page - 1) * m.PageSize
}
