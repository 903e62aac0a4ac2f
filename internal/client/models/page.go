package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PageNumber is a page index the server reports either as a JSON string
// ("1") or as a number (1).
type PageNumber int

func (p *PageNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*p = PageNumber(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = PageNumber(n)
	return nil
}

func (p PageNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(p)))
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Page       PageNumber `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// HasNext reports whether the server has more pages after this one.
func (p Page[T]) HasNext() bool {
	return int(p.Page) < p.TotalPages
}

// Next returns the page number to request after this one.
func (p Page[T]) Next() int {
	return int(p.Page) + 1
}
