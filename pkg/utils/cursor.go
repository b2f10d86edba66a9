package utils

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Cursor marks a position in a list ordered by createdAt DESC, id DESC.
type Cursor struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

func EncodeCursor(createdAt time.Time, id string) string {
	raw, _ := json.Marshal(Cursor{CreatedAt: createdAt.UTC(), ID: id})
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeCursor returns nil for anything that is not a well-formed cursor.
// Callers then serve the first page.
func DecodeCursor(s string) *Cursor {
	if s == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if raw, err = base64.RawURLEncoding.DecodeString(s); err != nil {
			return nil
		}
	}
	var cur Cursor
	if err := json.Unmarshal(raw, &cur); err != nil {
		return nil
	}
	if cur.CreatedAt.IsZero() || cur.ID == "" {
		return nil
	}
	return &cur
}
