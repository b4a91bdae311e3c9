package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiff_PasswordChangeIsReportedByName(t *testing.T) {
	before := Capture(&account{ID: 7, PasswordHash: "abc", FirstName: strPtr("Ann")})
	after := Capture(&account{ID: 7, PasswordHash: "xyz", FirstName: strPtr("Ann")})

	assert.Equal(t, []string{"passwordHash"}, Diff(before, after))
}

func TestDiff_NoChanges(t *testing.T) {
	a := &account{ID: 7, Username: "ann"}

	changed := Diff(Capture(a), Capture(a))

	assert.NotNil(t, changed)
	assert.Empty(t, changed)
}

func TestDiff_RelationsCompareByID(t *testing.T) {
	before := Capture(&stay{ID: 1, Ward: &ward{ID: 4, Number: "101"}})
	sameID := Capture(&stay{ID: 1, Ward: &ward{ID: 4, Number: "renamed"}})
	otherID := Capture(&stay{ID: 1, Ward: &ward{ID: 5}})
	none := Capture(&stay{ID: 1})

	assert.Empty(t, Diff(before, sameID))
	assert.Equal(t, []string{"ward"}, Diff(before, otherID))
	assert.Equal(t, []string{"ward"}, Diff(before, none))
	assert.Empty(t, Diff(none, Capture(&stay{ID: 1})))
}

func TestDiff_NullHandling(t *testing.T) {
	empty := strPtr("")

	assert.Empty(t, Diff(Capture(&account{ID: 1}), Capture(&account{ID: 1})))
	assert.Equal(t, []string{"firstName"}, Diff(Capture(&account{ID: 1}), Capture(&account{ID: 1, FirstName: empty})))
	assert.Equal(t, []string{"firstName"}, Diff(Capture(&account{ID: 1, FirstName: empty}), Capture(&account{ID: 1})))
}

func TestDiff_MissingFieldCountsAsNull(t *testing.T) {
	before := Values{{Name: "a", Data: 1}, {Name: "b", Data: nil}}
	after := Values{{Name: "c", Data: "x"}, {Name: "d", Data: nil}}

	assert.Equal(t, []string{"a", "c"}, Diff(before, after))
}

func TestDiff_EqualInstantsInDifferentZones(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	local := at.In(time.FixedZone("UTC+2", 2*60*60))

	assert.Empty(t, Diff(Capture(&account{ID: 1, LastLogin: &at}), Capture(&account{ID: 1, LastLogin: &local})))
}

func TestDiff_IgnoresCollections(t *testing.T) {
	before := Capture(&account{ID: 1, Groups: []string{"a"}})
	after := Capture(&account{ID: 1, Groups: []string{"b"}})

	assert.Empty(t, Diff(before, after))
}
