package assignees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeEmptyList(t *testing.T) {
	assert.Equal(t, "[]", Encode(nil))
	assert.Equal(t, "[]", Encode([]Assignee{}))
}

func TestEncodeSingleAssignee(t *testing.T) {
	encoded := Encode([]Assignee{
		{FirebaseUID: "uid-1", Name: "Alice", Email: "alice@example.com", PhotoURL: "https://img/a.png"},
	})

	assert.Equal(t, `[{"firebaseUid":"uid-1","name":"Alice","email":"alice@example.com","photoUrl":"https://img/a.png"}]`, encoded)
}

func TestEncodeEmptyPhotoURLKeepsKey(t *testing.T) {
	encoded := Encode([]Assignee{{FirebaseUID: "u", Name: "n", Email: "e"}})

	assert.Contains(t, encoded, `"photoUrl":""`)
}

func TestEncodeEscapesSpecialCharacters(t *testing.T) {
	encoded := Encode([]Assignee{
		{FirebaseUID: "u", Name: `He said "hi"`, Email: "a\\b", PhotoURL: "line1\nline2\r"},
	})

	assert.Equal(t, `[{"firebaseUid":"u","name":"He said \"hi\"","email":"a\\b","photoUrl":"line1\nline2\r"}]`, encoded)
}

func TestDecodeEmptyInputs(t *testing.T) {
	assert.Empty(t, Decode(""))
	assert.Empty(t, Decode("[]"))
	assert.Empty(t, Decode("  []  "))
	assert.Empty(t, Decode("[ ]"))
}

func TestDecodeCorruptInputIsEmptyNotError(t *testing.T) {
	for _, raw := range []string{
		"not a list",
		"[{",
		`[{"firebaseUid":"u"}`,
		`[{"firebaseUid":"u}]`,
		"{}",
		"[}]",
	} {
		assert.Empty(t, Decode(raw), "input %q", raw)
	}
}

func TestDecodeLegacyRow(t *testing.T) {
	raw := `[{"firebaseUid":"uid-1","name":"Alice","email":"alice@example.com","photoUrl":"https://img/a.png"},{"firebaseUid":"uid-2","name":"Bob","email":"bob@example.com","photoUrl":""}]`

	list := Decode(raw)

	assert.Len(t, list, 2)
	assert.Equal(t, "uid-1", list[0].FirebaseUID)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, "uid-2", list[1].FirebaseUID)
	assert.Equal(t, "", list[1].PhotoURL)
}

func TestDecodeAcceptsUIDKeyVariant(t *testing.T) {
	list := Decode(`[{"uid":"uid-9","name":"Old Row","email":"old@example.com"}]`)

	assert.Len(t, list, 1)
	assert.Equal(t, "uid-9", list[0].FirebaseUID)
}

func TestDecodeIgnoresUnknownKeys(t *testing.T) {
	list := Decode(`[{"firebaseUid":"u","name":"n","email":"e","photoUrl":"p","role":"ADMIN","extra":"x"}]`)

	assert.Len(t, list, 1)
	assert.Equal(t, Assignee{FirebaseUID: "u", Name: "n", Email: "e", PhotoURL: "p"}, list[0])
}

func TestDecodeTolerantOfWhitespace(t *testing.T) {
	list := Decode(`  [ {"firebaseUid": "u", "name": "n", "email": "e", "photoUrl": "p"} ]  `)

	assert.Len(t, list, 1)
	assert.Equal(t, "u", list[0].FirebaseUID)
	assert.Equal(t, "n", list[0].Name)
}

func TestRoundTripAdversarialValues(t *testing.T) {
	cases := []Assignee{
		{FirebaseUID: "plain", Name: "Alice", Email: "alice@example.com", PhotoURL: "https://img/a.png"},
		{FirebaseUID: "u", Name: `quote " inside`, Email: "e", PhotoURL: "p"},
		{FirebaseUID: "u", Name: `trailing backslash \`, Email: "e", PhotoURL: "p"},
		{FirebaseUID: "u", Name: "comma, separated, name", Email: "e", PhotoURL: "p"},
		{FirebaseUID: "u", Name: "braces {inside} value", Email: "e", PhotoURL: "p"},
		{FirebaseUID: "u", Name: "colon: value", Email: "e", PhotoURL: "https://host/path?a=b&c=d"},
		{FirebaseUID: "u", Name: "line1\nline2", Email: "e", PhotoURL: "cr\rhere"},
		{FirebaseUID: "u", Name: "山田 太郎", Email: "taro@example.jp", PhotoURL: ""},
		{FirebaseUID: "u", Name: `[{"firebaseUid":"fake"}]`, Email: "e", PhotoURL: "p"},
		{FirebaseUID: "u", Name: "", Email: "", PhotoURL: ""},
	}

	for _, a := range cases {
		decoded := Decode(Encode([]Assignee{a}))
		assert.Len(t, decoded, 1, "value %+v", a)
		assert.Equal(t, a, decoded[0], "value %+v", a)
	}
}

func TestRoundTripPreservesOrder(t *testing.T) {
	list := []Assignee{
		{FirebaseUID: "u1", Name: "first", Email: "1@x", PhotoURL: ""},
		{FirebaseUID: "u2", Name: "second", Email: "2@x", PhotoURL: ""},
		{FirebaseUID: "u3", Name: "third", Email: "3@x", PhotoURL: ""},
	}

	assert.Equal(t, list, Decode(Encode(list)))
}

func TestUnescapeKeepsUnknownEscapes(t *testing.T) {
	list := Decode(`[{"firebaseUid":"u","name":"a\zb","email":"e","photoUrl":"p"}]`)

	assert.Len(t, list, 1)
	assert.Equal(t, `a\zb`, list[0].Name)
}
