package domain

const PageSize = 8

const (
	SortAlphabetical = "alphabetical"
	SortDateCreated  = "dateCreated"
)

// Query configures the hotel list view. The zero value of every filter means
// "no filter"; PageIndex is 1-based.
type Query struct {
	Search    string
	Category  int
	Country   string
	Sort      string
	PageIndex int
	PageSize  int
}

// NewQuery returns the default list configuration: newest first, first page.
func NewQuery() Query {
	return Query{Sort: SortDateCreated, PageIndex: 1, PageSize: PageSize}
}

// Changing any filter or the sort key sends the view back to the first page.

func (q Query) WithSearch(s string) Query {
	q.Search = s
	q.PageIndex = 1
	return q
}

func (q Query) WithCategory(c int) Query {
	q.Category = c
	q.PageIndex = 1
	return q
}

func (q Query) WithCountry(c string) Query {
	q.Country = c
	q.PageIndex = 1
	return q
}

func (q Query) WithSort(s string) Query {
	q.Sort = s
	q.PageIndex = 1
	return q
}

func (q Query) WithPage(p int) Query {
	q.PageIndex = p
	return q
}

// EffectivePageSize falls back to PageSize when unset.
func (q Query) EffectivePageSize() int {
	if q.PageSize <= 0 {
		return PageSize
	}
	return q.PageSize
}

type Page struct {
	Items     []Hotel `json:"items"`
	Page      int     `json:"page"`
	PageSize  int     `json:"pageSize"`
	Total     int     `json:"total"`
	PageCount int     `json:"pageCount"`
}
