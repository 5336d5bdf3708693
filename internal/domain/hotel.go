package domain

// ImageRef is an opaque handle to an uploaded image. Handles are only valid for
// the session that minted them; the directory persists the handle text, never
// the image bytes.
type ImageRef string

type Hotel struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Country     string     `json:"country"`
	Address     string     `json:"address"`
	Category    int        `json:"category"` // star rating, 1..5
	Images      []ImageRef `json:"images"`
	DateCreated *int64     `json:"dateCreated"` // ms since epoch; nil when unknown
}

// Created returns DateCreated, treating an absent timestamp as epoch 0.
func (h Hotel) Created() int64 {
	if h.DateCreated == nil {
		return 0
	}
	return *h.DateCreated
}

// Clone returns a copy that shares no slices or pointers with h.
func (h Hotel) Clone() Hotel {
	out := h
	if h.Images != nil {
		out.Images = make([]ImageRef, len(h.Images))
		copy(out.Images, h.Images)
	}
	if h.DateCreated != nil {
		ts := *h.DateCreated
		out.DateCreated = &ts
	}
	return out
}

type Country struct {
	Country    string  `json:"country"`
	GeonameID  int64   `json:"geonameid"`
	Name       string  `json:"name"`
	Subcountry *string `json:"subcountry,omitempty"`
}
