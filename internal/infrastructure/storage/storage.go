package storage

import (
	"slices"
	"strings"

	"xprem/internal/domain"

	"github.com/goccy/go-json"
)

// payload 与前端存储格式一致：{"pinned":[],"muted":[],"openRows":[]}
type payload struct {
	Pinned json.RawMessage `json:"pinned"`
	Muted  json.RawMessage `json:"muted"`
	Open   json.RawMessage `json:"openRows"`
}

// Encode serializes preferences. Nil lists are written as [].
func Encode(p domain.Preferences) ([]byte, error) {
	return json.Marshal(domain.Preferences{
		Pinned: orEmpty(p.Pinned),
		Muted:  orEmpty(p.Muted),
		Open:   orEmpty(p.Open),
	})
}

// Decode never fails: unreadable documents yield empty preferences and a
// malformed field only drops that field.
func Decode(b []byte) domain.Preferences {
	var raw payload
	if len(b) == 0 || json.Unmarshal(b, &raw) != nil {
		return domain.Preferences{}
	}
	return domain.Preferences{
		Pinned: decodeList(raw.Pinned),
		Muted:  decodeList(raw.Muted),
		Open:   decodeList(raw.Open),
	}
}

func decodeList(b json.RawMessage) []string {
	if len(b) == 0 {
		return nil
	}
	var items []any
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
