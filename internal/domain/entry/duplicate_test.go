package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryWith(data map[string]any) FormEntry {
	return FormEntry{FormData: data}
}

func TestDetectDuplicates_NoCriticalFieldsExcluded(t *testing.T) {
	groups := DetectDuplicates([]FormEntry{
		entryWith(map[string]any{"location": "Mumbai"}),
		entryWith(map[string]any{"location": "Mumbai"}),
	})
	assert.Empty(t, groups)
}

func TestDetectDuplicates_SingletonGroupsDropped(t *testing.T) {
	groups := DetectDuplicates([]FormEntry{
		entryWith(map[string]any{"pan_card": "ABCDE1234F"}),
		entryWith(map[string]any{"pan_card": "XYZAB9876K"}),
	})
	assert.Empty(t, groups)
}

func TestDetectDuplicates_PairFullMatch(t *testing.T) {
	data := map[string]any{
		"applicant_name": "Asha Rao",
		"pan_card":       "ABCDE1234F",
		"aadhar_number":  "1234 5678 9012",
		"phone_number":   "9876543210",
	}
	groups := DetectDuplicates([]FormEntry{entryWith(data), entryWith(data)})

	// a pair tops out at 50: every slot collides at (2-1)/2.
	require.Len(t, groups, 1)
	assert.Equal(t, 50, groups[0].Confidence)
	assert.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "Asha Rao|ABCDE1234F|1234 5678 9012|9876543210", groups[0].Key)
}

func TestDetectDuplicates_SingleFieldMatch(t *testing.T) {
	groups := DetectDuplicates([]FormEntry{
		entryWith(map[string]any{"pan_card": "ABCDE1234F"}),
		entryWith(map[string]any{"pan_card": "ABCDE1234F"}),
	})

	// one colliding slot of four: 0.5/4, rounded to 13.
	require.Len(t, groups, 1)
	assert.Equal(t, 13, groups[0].Confidence)
}

func TestDetectDuplicates_TwoFieldMatch(t *testing.T) {
	data := map[string]any{"pan_card": "ABCDE1234F", "phone_number": "9876543210"}
	groups := DetectDuplicates([]FormEntry{entryWith(data), entryWith(data)})

	require.Len(t, groups, 1)
	assert.Equal(t, 25, groups[0].Confidence)
	assert.Equal(t, "ABCDE1234F|9876543210", groups[0].Key)
}

func TestDetectDuplicates_CustomerNameFallback(t *testing.T) {
	a := entryWith(map[string]any{"customer_name": "Asha Rao", "pan_card": "ABCDE1234F"})
	b := entryWith(map[string]any{"customer_name": "Asha Rao", "pan_card": "ABCDE1234F"})

	groups := DetectDuplicates([]FormEntry{a, b})

	require.Len(t, groups, 1)
	assert.Equal(t, "Asha Rao|ABCDE1234F", groups[0].Key)
	assert.Equal(t, 25, groups[0].Confidence)
}

func TestDetectDuplicates_PositionalCollisionOnly(t *testing.T) {
	// same joined string can only come from the same surviving slots; a
	// pan-only entry and a phone-only entry never land in one group even
	// with equal values.
	groups := DetectDuplicates([]FormEntry{
		entryWith(map[string]any{"pan_card": "SHARED"}),
		entryWith(map[string]any{"phone_number": "SHARED"}),
	})
	require.Len(t, groups, 1)

	// both collapse to key "SHARED" by join, which is exactly the
	// documented limitation of the cheap first-pass filter; the confidence
	// score then discounts the group because no single slot collides.
	assert.Equal(t, 0, groups[0].Confidence)
}

func TestDetectDuplicates_SortedByConfidenceDesc(t *testing.T) {
	full := map[string]any{
		"applicant_name": "Ravi Kumar",
		"pan_card":       "FGHIJ5678K",
		"aadhar_number":  "9999 8888 7777",
		"phone_number":   "9000000000",
	}
	partial := map[string]any{"pan_card": "ABCDE1234F"}

	groups := DetectDuplicates([]FormEntry{
		entryWith(partial), entryWith(partial),
		entryWith(full), entryWith(full),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, 50, groups[0].Confidence)
	assert.Equal(t, 13, groups[1].Confidence)
}

func TestDetectDuplicates_NonStringValuesIgnored(t *testing.T) {
	groups := DetectDuplicates([]FormEntry{
		entryWith(map[string]any{"phone_number": 9876543210.0}),
		entryWith(map[string]any{"phone_number": 9876543210.0}),
	})
	assert.Empty(t, groups)
}
