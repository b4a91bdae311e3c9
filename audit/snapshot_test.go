package audit

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s *Snapshot) map[string]any {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestSerializer_RedactsDenylistedFields(t *testing.T) {
	s := NewSerializer()

	for _, hash := range []string{"", "abc", strings.Repeat("x", 10000)} {
		for _, token := range []*string{nil, strPtr(""), strPtr("t0k3n")} {
			snap := s.Serialize(&account{ID: 1, Username: "ann", PasswordHash: hash, Token: token})

			assert.False(t, snap.Has("passwordHash"))
			assert.False(t, snap.Has("token"))
			assert.True(t, snap.Has("username"))
			raw, _ := json.Marshal(snap)
			if hash != "" {
				assert.NotContains(t, string(raw), hash)
			}
		}
	}
}

func TestSerializer_ExtraRedactedFields(t *testing.T) {
	s := NewSerializer("firstName")

	snap := s.Serialize(&account{ID: 1, FirstName: strPtr("Ann")})

	assert.True(t, s.Redacted("firstName"))
	assert.True(t, s.Redacted("refreshToken"))
	assert.False(t, snap.Has("firstName"))
}

func TestSerializer_SkipsCollections(t *testing.T) {
	s := NewSerializer()

	snap := s.Serialize(&account{ID: 1, Groups: []string{"admins"}})
	assert.False(t, snap.Has("groups"))

	snap = s.Serialize(&ward{ID: 2, Number: "101", Tags: []string{"icu"}})
	assert.False(t, snap.Has("tags"))
	assert.Equal(t, []string{"id", "number", "price"}, snap.Keys())
}

func TestSerializer_RelationsBecomeIDs(t *testing.T) {
	s := NewSerializer()

	snap := s.Serialize(&stay{ID: 3, Ward: &ward{ID: 9}, Status: "ACTIVE"})
	out := decode(t, snap)

	assert.Equal(t, float64(9), out["wardId"])
	v, ok := out["guestId"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.NotContains(t, out, "ward")
	assert.NotContains(t, out, "guest")
}

func TestSerializer_SkipsUnreadableFields(t *testing.T) {
	s := NewSerializer()

	snap := s.Serialize(&stay{ID: 3, Status: "ACTIVE"})

	assert.False(t, snap.Has("broken"))
	assert.Equal(t, []string{"id", "wardId", "guestId", "status"}, snap.Keys())
}

func TestSerializer_NormalizesTimes(t *testing.T) {
	s := NewSerializer()
	loc := time.FixedZone("UTC-6", -6*60*60)
	login := time.Date(2024, 3, 1, 8, 30, 0, 500, loc)

	out := decode(t, s.Serialize(&account{ID: 1, LastLogin: &login}))

	assert.Equal(t, "2024-03-01T14:30:00.0000005Z", out["lastLogin"])
}

func TestSerializer_NullPointers(t *testing.T) {
	out := decode(t, NewSerializer().Serialize(&ward{ID: 9, Number: "101"}))

	assert.Equal(t, "101", out["number"])
	v, ok := out["price"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestSnapshot_KeepsDeclarationOrder(t *testing.T) {
	snap := NewSerializer().Serialize(&account{ID: 1, Username: "ann"})

	b, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"username":"ann","firstName":null,"lastLogin":null}`, string(b))
}

func TestSnapshot_Nil(t *testing.T) {
	var snap *Snapshot

	assert.Nil(t, snap.JSON())
	assert.Nil(t, snap.Keys())
	assert.False(t, snap.Has("id"))
}

func TestDescribe_PanicsOnDuplicateField(t *testing.T) {
	assert.Panics(t, func() {
		Describe("Dup", Collection("a"), Collection("a"))
	})
}
