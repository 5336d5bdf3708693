package app_test

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
)

func hotel(id, name, country string, category int, created *int64) domain.Hotel {
	return domain.Hotel{ID: id, Name: name, Country: country, Address: "addr " + id, Category: category,
		Images: []domain.ImageRef{}, DateCreated: created}
}

func ids(hs []domain.Hotel) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func sample() []domain.Hotel {
	return []domain.Hotel{
		hotel("1", "Hotel Le Marais", "France", 4, ptr(int64(100))),
		hotel("2", "Grand Riviera", "Italy", 5, ptr(int64(300))),
		hotel("3", "alpenhof", "Austria", 3, ptr(int64(200))),
		hotel("4", "Casa del Sol", "Spain", 3, nil),
		hotel("5", "Hôtel du Parc", "France", 3, ptr(int64(50))),
	}
}

func TestApply_CategoryCountryAndName(t *testing.T) {
	q := domain.Query{Category: 3, PageIndex: 1}
	if got := ids(app.Apply(sample(), q).Items); !reflect.DeepEqual(got, []string{"3", "4", "5"}) {
		t.Fatalf("category filter: %v", got)
	}

	q = domain.Query{Country: "France", PageIndex: 1}
	if got := ids(app.Apply(sample(), q).Items); !reflect.DeepEqual(got, []string{"1", "5"}) {
		t.Fatalf("country filter: %v", got)
	}

	q = domain.Query{Search: "HOTEL", PageIndex: 1}
	if got := ids(app.Apply(sample(), q).Items); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("name filter should be case-insensitive substring: %v", got)
	}

	q = domain.Query{Category: 3, Country: "France", Search: "parc", PageIndex: 1}
	if got := ids(app.Apply(sample(), q).Items); !reflect.DeepEqual(got, []string{"5"}) {
		t.Fatalf("combined filters: %v", got)
	}
}

func TestApply_CategorySentinelMatchesNoFilter(t *testing.T) {
	all := app.Apply(sample(), domain.Query{PageIndex: 1, Sort: "none"})
	zero := app.Apply(sample(), domain.Query{Category: 0, PageIndex: 1, Sort: "none"})
	if !reflect.DeepEqual(ids(all.Items), ids(zero.Items)) || zero.Total != len(sample()) {
		t.Fatalf("category 0 must not filter: %v vs %v", ids(all.Items), ids(zero.Items))
	}
}

func TestApply_SortDateCreatedDescending(t *testing.T) {
	in := []domain.Hotel{
		hotel("a", "A", "X", 1, ptr(int64(100))),
		hotel("b", "B", "X", 1, ptr(int64(300))),
		hotel("c", "C", "X", 1, nil),
		hotel("d", "D", "X", 1, ptr(int64(200))),
	}
	got := ids(app.Apply(in, domain.Query{Sort: domain.SortDateCreated, PageIndex: 1}).Items)
	if !reflect.DeepEqual(got, []string{"b", "d", "a", "c"}) {
		t.Fatalf("expected [b d a c] (absent sorts as 0), got %v", got)
	}
}

func TestApply_SortAlphabeticalIsLocaleAware(t *testing.T) {
	in := []domain.Hotel{
		hotel("z", "Zurich Inn", "X", 1, nil),
		hotel("e", "Étoile", "X", 1, nil),
		hotel("a", "alpenhof", "X", 1, nil),
		hotel("f", "Fjord", "X", 1, nil),
	}
	got := ids(app.Apply(in, domain.Query{Sort: domain.SortAlphabetical, PageIndex: 1}).Items)
	// byte order would put "alpenhof" last and "Étoile" after "Zurich Inn"
	if !reflect.DeepEqual(got, []string{"a", "e", "f", "z"}) {
		t.Fatalf("unexpected collation order: %v", got)
	}
}

func TestApply_UnknownSortKeepsFilteredOrder(t *testing.T) {
	for _, key := range []string{"", "price"} {
		got := ids(app.Apply(sample(), domain.Query{Sort: key, PageIndex: 1}).Items)
		if !reflect.DeepEqual(got, []string{"1", "2", "3", "4", "5"}) {
			t.Fatalf("sort %q reordered records: %v", key, got)
		}
	}
}

func TestApply_Pagination17Records(t *testing.T) {
	var in []domain.Hotel
	for i := 0; i < 17; i++ {
		in = append(in, hotel(fmt.Sprint(i), fmt.Sprintf("H%02d", i), "X", 1, nil))
	}
	want := map[int]int{1: 8, 2: 8, 3: 1, 4: 0, 0: 0, -1: 0, 1<<61 + 1: 0, math.MaxInt: 0, math.MinInt: 0}
	for page, n := range want {
		p := app.Apply(in, domain.NewQuery().WithPage(page))
		if len(p.Items) != n {
			t.Fatalf("page %d: expected %d items, got %d", page, n, len(p.Items))
		}
		if p.Total != 17 || p.PageCount != 3 || p.Items == nil {
			t.Fatalf("page %d: unexpected page meta %+v", page, p)
		}
	}
}

func TestApply_IsIdempotentAndPure(t *testing.T) {
	in := sample()
	before := ids(in)
	q := domain.Query{Sort: domain.SortAlphabetical, PageIndex: 1}

	first := app.Apply(in, q)
	second := app.Apply(in, q)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input and query must yield the same page")
	}
	if !reflect.DeepEqual(ids(in), before) {
		t.Fatalf("Apply reordered its input: %v", ids(in))
	}
	first.Items[0].Images = append(first.Items[0].Images, "blob:x")
	if len(in[0].Images) != 0 || len(in[2].Images) != 0 {
		t.Fatalf("page items must not alias input records")
	}
}

func TestQuery_FilterChangesResetPage(t *testing.T) {
	q := domain.NewQuery().WithPage(3)
	for name, next := range map[string]domain.Query{
		"search":   q.WithSearch("x"),
		"category": q.WithCategory(2),
		"country":  q.WithCountry("Spain"),
		"sort":     q.WithSort(domain.SortAlphabetical),
	} {
		if next.PageIndex != 1 {
			t.Fatalf("%s change must reset page to 1, got %d", name, next.PageIndex)
		}
	}
	if q.WithPage(2).PageIndex != 2 {
		t.Fatalf("WithPage must set the page")
	}
}
