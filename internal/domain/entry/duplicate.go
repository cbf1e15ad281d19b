package entry

import (
	"math"
	"sort"
	"strings"
)

// criticalFieldSlots are the identity-like form_data fields used to group
// probable duplicates. Each slot lists accepted names; the first non-empty
// value wins. Slot position is fixed: two entries collide only if their
// surviving values match positionally.
var criticalFieldSlots = [][]string{
	{"applicant_name", "customer_name"},
	{"pan_card"},
	{"aadhar_number"},
	{"phone_number"},
}

// DuplicateGroup is a set of entries sharing a duplicate key, scored by
// cross-entry field collision rate.
type DuplicateGroup struct {
	Key        string      `json:"key"`
	Entries    []FormEntry `json:"entries"`
	Confidence int         `json:"confidence"`
}

func slotValue(data map[string]any, slot []string) string {
	for _, name := range slot {
		if v, ok := data[name]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// duplicateKey joins the non-empty critical values in fixed slot order.
// An entry with no usable critical fields gets no key and is excluded
// from grouping entirely.
func duplicateKey(e *FormEntry) (string, bool) {
	values := make([]string, 0, len(criticalFieldSlots))
	for _, slot := range criticalFieldSlots {
		if v := slotValue(e.FormData, slot); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, "|"), true
}

// groupConfidence averages the per-slot collision ratio
// (count - distinct) / count over all four critical slots; slots with at
// most one contributing value add 0. Result is a rounded percentage, so a
// group colliding on several fields scores higher than one colliding on a
// single field.
func groupConfidence(entries []FormEntry) int {
	var total float64
	for _, slot := range criticalFieldSlots {
		var values []string
		for i := range entries {
			if v := slotValue(entries[i].FormData, slot); v != "" {
				values = append(values, v)
			}
		}
		if len(values) <= 1 {
			continue
		}
		distinct := map[string]bool{}
		for _, v := range values {
			distinct[v] = true
		}
		total += float64(len(values)-len(distinct)) / float64(len(values))
	}
	return int(math.Round(total / float64(len(criticalFieldSlots)) * 100))
}

// DuplicateKeyOf exposes the grouping key for a single entry so create
// flows can guard against inserting an exact critical-field collision.
func DuplicateKeyOf(e *FormEntry) (string, bool) {
	return duplicateKey(e)
}

// DetectDuplicates groups a loaded working set of entries by duplicate key
// and scores each group. Grouping is a single O(n) pass; the confidence
// score re-examines only within already-grouped candidates, deliberately
// avoiding an all-pairs comparison across the full set. Groups of size 1
// are dropped. Output is sorted by confidence descending.
func DetectDuplicates(entries []FormEntry) []DuplicateGroup {
	groups := make(map[string][]FormEntry)
	var keyOrder []string
	for i := range entries {
		key, ok := duplicateKey(&entries[i])
		if !ok {
			continue
		}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], entries[i])
	}

	var out []DuplicateGroup
	for _, key := range keyOrder {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		out = append(out, DuplicateGroup{
			Key:        key,
			Entries:    members,
			Confidence: groupConfidence(members),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}
