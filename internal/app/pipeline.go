package app

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hotel_directory/internal/domain"
)

// Apply derives one page of the list view from records. It is pure: records is
// neither reordered nor retained, and the same inputs always give the same page.
func Apply(records []domain.Hotel, q domain.Query) domain.Page {
	filtered := Filter(records, q)
	SortHotels(filtered, q.Sort)
	return Paginate(filtered, q.PageIndex, q.EffectivePageSize())
}

// Filter keeps records matching the category, country and name filters of q,
// in input order. The returned slice never aliases records.
func Filter(records []domain.Hotel, q domain.Query) []domain.Hotel {
	needle := strings.ToLower(q.Search)
	out := make([]domain.Hotel, 0, len(records))
	for _, h := range records {
		if q.Category != 0 && h.Category != q.Category {
			continue
		}
		if q.Country != "" && h.Country != q.Country {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(h.Name), needle) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// SortHotels orders hs in place. Unknown keys keep the current order; both
// known orders are stable so ties stay in filtered order.
func SortHotels(hs []domain.Hotel, key string) {
	switch key {
	case domain.SortAlphabetical:
		// a Collator keeps scratch buffers, so one per call
		col := collate.New(language.English)
		slices.SortStableFunc(hs, func(a, b domain.Hotel) int {
			return col.CompareString(a.Name, b.Name)
		})
	case domain.SortDateCreated:
		slices.SortStableFunc(hs, func(a, b domain.Hotel) int {
			return cmp.Compare(b.Created(), a.Created())
		})
	}
}

// Paginate returns the 1-based page of hs. Pages outside the range are empty,
// never an error.
func Paginate(hs []domain.Hotel, page, size int) domain.Page {
	if size <= 0 {
		size = domain.PageSize
	}
	out := domain.Page{
		Items:     []domain.Hotel{},
		Page:      page,
		PageSize:  size,
		Total:     len(hs),
		PageCount: (len(hs) + size - 1) / size,
	}
	if page < 1 || page > out.PageCount {
		return out
	}
	start := (page - 1) * size
	end := min(start+size, len(hs))
	out.Items = cloneAll(hs[start:end])
	return out
}
