package nakama

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// ID is the verbatim JSON token of an anime's "id" field. Numeric 1 and
// string "1" are distinct identifiers.
type ID string

// String returns the identifier without JSON string quoting.
func (id ID) String() string {
	if s, err := strconv.Unquote(string(id)); err == nil {
		return s
	}
	return string(id)
}

// Anime is a record from the catalog API. Only ID and Title are read; the
// original object is kept and re-encoded unchanged.
type Anime struct {
	ID    ID
	Title string

	raw json.RawMessage
}

func (a *Anime) UnmarshalJSON(b []byte) error {
	var head struct {
		ID    json.RawMessage `json:"id"`
		Title json.RawMessage `json:"title"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	a.ID = ID(bytes.TrimSpace(head.ID))
	a.Title = titleText(head.Title)
	a.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (a Anime) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	out := struct {
		ID    json.RawMessage `json:"id,omitempty"`
		Title string          `json:"title"`
	}{Title: a.Title}
	if a.ID != "" {
		out.ID = json.RawMessage(a.ID)
	}
	return json.Marshal(out)
}

// titleText reads a title leniently: strings are unquoted, numbers and
// booleans keep their literal text, anything else is empty.
func titleText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return string(raw)
	}
}

// Captcha is the challenge payload returned by the auth API, passed through
// untouched.
type Captcha = json.RawMessage
