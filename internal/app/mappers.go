package app

import (
	"strconv"
	"strings"

	"hotel_directory/internal/domain"
)

/********** alias registry (single source of truth) **********/

var countryAliases = map[string][]string{
	"country":    {"country", "country_name", "countryName"},
	"name":       {"name", "city", "city_name", "asciiname"},
	"subcountry": {"subcountry", "sub_country", "region", "admin1"},
	"geonameid":  {"geonameid", "geoname_id", "geonameId", "id"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the trimmed string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) *string {
	for _, p := range countryAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// flattenObjects walks arbitrarily nested arrays and collects the objects.
// The world-cities feed has been served both flat and as an array of pages.
func flattenObjects(v any, out []map[string]any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out = append(out, t)
	case []any:
		for _, it := range t {
			out = flattenObjects(it, out)
		}
	case []map[string]any:
		out = append(out, t...)
	}
	return out
}

/********** country mapper **********/

// MapCountries converts a decoded country payload into reference entries.
// Entries without a country name are dropped, and duplicates (same geonameid,
// or same country+name when no id is present) keep their first occurrence.
func MapCountries(payload any) []domain.Country {
	objs := flattenObjects(payload, nil)
	out := make([]domain.Country, 0, len(objs))
	seen := make(map[string]struct{}, len(objs))
	for _, o := range objs {
		country := firstNonEmptyAlias(o, "country")
		if country == nil {
			continue
		}
		c := domain.Country{Country: *country}
		if n := firstNonEmptyAlias(o, "name"); n != nil {
			c.Name = *n
		}
		c.Subcountry = firstNonEmptyAlias(o, "subcountry")
		if id := firstInt64Flexible(o, countryAliases["geonameid"]...); id != nil {
			c.GeonameID = *id
		}

		key := countryKey(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
