package row

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestValueOf(t *testing.T) {
	var nilString *string
	var nilInt *int
	var nilValue *Value
	s := "hello"
	n := 7
	text := Text("x")

	tests := []struct {
		name string
		in   interface{}
		kind Kind
		want interface{}
	}{
		{"nil", nil, KindNull, nil},
		{"string", "a", KindText, "a"},
		{"empty string", "", KindText, ""},
		{"string pointer", &s, KindText, "hello"},
		{"nil string pointer", nilString, KindNull, nil},
		{"int", 42, KindOther, 42},
		{"int pointer", &n, KindOther, 7},
		{"nil int pointer", nilInt, KindNull, nil},
		{"bool", true, KindOther, true},
		{"float", 1.5, KindOther, 1.5},
		{"nil slice", []byte(nil), KindNull, nil},
		{"value passthrough", Text("x"), KindText, "x"},
		{"value pointer", &text, KindText, "x"},
		{"nil value pointer", nilValue, KindNull, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueOf(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestOtherKeepsKindForStrings(t *testing.T) {
	v := Other("now()")
	assert.Equal(t, KindOther, v.Kind())
	assert.Equal(t, "now()", v.Interface())
	assert.True(t, Other(nil).IsNull())
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, "<null>", v.String())
}

func TestRecordPreservesOrder(t *testing.T) {
	r := New(
		Field("zeta", 1),
		Field("Alpha", "a"),
		Field("mid", nil),
	)

	assert.Equal(t, []string{"zeta", "Alpha", "mid"}, r.Keys())
	assert.Equal(t, 3, r.Len())

	v, ok := r.Get("Alpha")
	require.True(t, ok)
	assert.Equal(t, Text("a"), v)

	v, ok = r.Get("mid")
	require.True(t, ok)
	assert.True(t, v.IsNull())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRecordSetOverwritesInPlace(t *testing.T) {
	r := New(Field("a", 1), Field("b", 2))
	r.Set("a", Text("x"))

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	assert.Equal(t, Text("x"), r.At(0).Value)
}

func TestRecordCopiesAreIndependent(t *testing.T) {
	base := New(Field("id", 1))

	ext := base
	ext.Set("name", Text("a"))
	ext.Set("id", Other(2))

	_, ok := base.Get("name")
	assert.False(t, ok)
	assert.Equal(t, []string{"id"}, base.Keys())
	v, _ := base.Get("id")
	assert.Equal(t, 1, v.Interface())

	other := base
	other.Set("email", Text("b"))
	assert.Equal(t, []string{"id", "name"}, ext.Keys())
	assert.Equal(t, []string{"id", "email"}, other.Keys())
	v, _ = ext.Get("name")
	assert.Equal(t, Text("a"), v)
}

func TestZeroRecordUsable(t *testing.T) {
	var r Record
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get("a")
	assert.False(t, ok)

	r.Set("a", Other(1))
	assert.Equal(t, 1, r.Len())
}

func TestFromMapSortsKeys(t *testing.T) {
	r := FromMap(map[string]interface{}{
		"name": "a",
		"id":   1,
		"age":  nil,
	})

	assert.Equal(t, []string{"age", "id", "name"}, r.Keys())
	assert.Equal(t, map[string]interface{}{"age": nil, "id": 1, "name": "a"}, r.Map())
}

type person struct {
	ID       int     `cql:"id"`
	Name     string  `cql:"Name"`
	Nickname *string `cql:"nickname"`
	Internal string  `cql:"-"`
	Email    string  `cql:"email,omitempty"`
	Age      int
	hidden   int
}

func TestFromStruct(t *testing.T) {
	r, err := FromStruct(&person{ID: 1, Name: "alice", Internal: "x", Age: 30, hidden: 9})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "Name", "nickname", "Age"}, r.Keys())

	v, _ := r.Get("nickname")
	assert.True(t, v.IsNull())
	v, _ = r.Get("Name")
	assert.Equal(t, KindText, v.Kind())
}

type audited struct {
	CreatedBy string `cql:"created_by"`
}

type document struct {
	audited
	ID int `cql:"id"`
}

func TestFromStructFlattensEmbedded(t *testing.T) {
	r, err := FromStruct(document{audited: audited{CreatedBy: "bob"}, ID: 3})
	require.NoError(t, err)
	// embedded field is unexported, so it is skipped entirely
	assert.Equal(t, []string{"id"}, r.Keys())

	type Audited struct {
		CreatedBy string `cql:"created_by"`
	}
	type exported struct {
		Audited
		ID int `cql:"id"`
	}
	r, err = FromStruct(exported{Audited: Audited{CreatedBy: "bob"}, ID: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"created_by", "id"}, r.Keys())
}

func TestFromStructRejectsNonStruct(t *testing.T) {
	_, err := FromStruct(42)
	assert.ErrorIs(t, err, ErrNotStruct)

	var p *person
	_, err = FromStruct(p)
	assert.ErrorIs(t, err, ErrNotStruct)
}

func TestDecode(t *testing.T) {
	r := New(Field("id", int64(5)), Field("Name", "carol"), Field("nickname", nil))

	var p person
	require.NoError(t, r.Decode(&p))
	assert.Equal(t, 5, p.ID)
	assert.Equal(t, "carol", p.Name)
	assert.Nil(t, p.Nickname)
}

func TestJSONRoundTripKeepsOrder(t *testing.T) {
	in := []byte(`{"zeta": 1, "alpha": "a\"b", "ratio": 1.25, "ok": true, "gone": null, "tags": ["x","y"]}`)

	var r Record
	require.NoError(t, json.Unmarshal(in, &r))

	assert.Equal(t, []string{"zeta", "alpha", "ratio", "ok", "gone", "tags"}, r.Keys())

	v, _ := r.Get("zeta")
	assert.Equal(t, Other(int64(1)), v)
	v, _ = r.Get("alpha")
	assert.Equal(t, Text(`a"b`), v)
	v, _ = r.Get("ratio")
	assert.Equal(t, Other(1.25), v)
	v, _ = r.Get("ok")
	assert.Equal(t, Other(true), v)
	v, _ = r.Get("gone")
	assert.True(t, v.IsNull())
	v, _ = r.Get("tags")
	assert.Equal(t, KindOther, v.Kind())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"a\"b","ratio":1.25,"ok":true,"gone":null,"tags":"[\"x\",\"y\"]"}`, string(out))
}

func TestJSONArrayOfRecords(t *testing.T) {
	var rows []Record
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"a"},{"id":2,"name":null}]`), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "name"}, rows[1].Keys())
}

func TestMsgpackRoundTripKeepsOrder(t *testing.T) {
	r := New(Field("zeta", int64(1)), Field("alpha", "a"), Field("gone", nil))

	data, err := msgpack.Marshal(r)
	require.NoError(t, err)

	var back Record
	require.NoError(t, msgpack.Unmarshal(data, &back))
	assert.Equal(t, []string{"zeta", "alpha", "gone"}, back.Keys())

	v, _ := back.Get("alpha")
	assert.Equal(t, Text("a"), v)
	v, _ = back.Get("gone")
	assert.True(t, v.IsNull())
}
