package types

import "strings"

// DPISet is an ordered, deduplicated set of equipment tags (helmet, gloves,
// vest, ...).  Tags are compared case-insensitively and stored lowercased.
// The zero value is the empty set.
type DPISet []string

// NewDPISet normalizes tags: trims whitespace, lowercases, drops empties,
// and keeps the first occurrence of each tag.
func NewDPISet(tags ...string) DPISet {
	seen := make(map[string]struct{}, len(tags))
	out := make(DPISet, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseDPISet parses a comma-joined column value back into a set.
func ParseDPISet(s string) DPISet {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NewDPISet(strings.Split(s, ",")...)
}

// Join renders the set as the comma-joined column value.
func (d DPISet) Join() string { return strings.Join(d, ",") }

// Contains reports whether tag is in the set.
func (d DPISet) Contains(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range d {
		if t == tag {
			return true
		}
	}
	return false
}

// Covers reports whether every tag in required is present in d.
// An empty required set is always covered.
func (d DPISet) Covers(required DPISet) bool {
	for _, t := range required {
		if !d.Contains(t) {
			return false
		}
	}
	return true
}
