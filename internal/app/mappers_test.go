package app

import (
	"encoding/json"
	"testing"
)

func TestMapCountries_FlattensAndDedups(t *testing.T) {
	raw := `[
	  [{"country":"France","geonameid":2988507,"name":"Paris","subcountry":"Île-de-France"},
	   {"country":"France","geonameid":"2988507","name":"Paris"}],
	  [{"country_name":"Spain","geoname_id":3117735,"city":"Madrid"},
	   {"name":"no country here"}],
	  {"country":"Andorra","name":"Andorra la Vella"}
	]`
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := MapCountries(payload)
	if len(got) != 3 {
		t.Fatalf("expected 3 countries, got %d: %+v", len(got), got)
	}
	if got[0].Country != "France" || got[0].GeonameID != 2988507 || got[0].Subcountry == nil {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].Country != "Spain" || got[1].Name != "Madrid" || got[1].GeonameID != 3117735 {
		t.Fatalf("aliases not honoured: %+v", got[1])
	}
	if got[2].Country != "Andorra" || got[2].Subcountry != nil {
		t.Fatalf("unexpected last entry: %+v", got[2])
	}
}

func TestLookupAny_NestedPaths(t *testing.T) {
	m := map[string]any{"a": map[string]any{"b": "x"}}
	if lookupStr(m, "a.b") != "x" {
		t.Fatalf("expected nested lookup")
	}
	if lookupAny(m, "a.c") != nil || lookupAny(m, "a.b.c") != nil {
		t.Fatalf("expected nil for missing paths")
	}
}
