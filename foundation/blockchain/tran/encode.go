package tran

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// The chain recomputes the signed bytes itself, so documents are written
// field by field in a fixed order instead of through struct reflection.
var api = jsoniter.Config{
	EscapeHTML: true,
}.Froze()

// value is a node of an ordered JSON document.
type value interface {
	encode(s *jsoniter.Stream)
}

type field struct {
	key string
	val value
}

// object keeps its fields in declaration order.
type object []field

func (o object) encode(s *jsoniter.Stream) {
	s.WriteObjectStart()
	for i, f := range o {
		if i > 0 {
			s.WriteMore()
		}
		s.WriteObjectField(f.key)
		f.val.encode(s)
	}
	s.WriteObjectEnd()
}

type array []value

func (a array) encode(s *jsoniter.Stream) {
	s.WriteArrayStart()
	for i, v := range a {
		if i > 0 {
			s.WriteMore()
		}
		v.encode(s)
	}
	s.WriteArrayEnd()
}

// str is escaped the way encoding/json escapes strings.
type str string

func (v str) encode(s *jsoniter.Stream) {
	s.WriteStringWithHTMLEscaped(string(v))
}

// number is written as a bare JSON number.
type number uint64

func (v number) encode(s *jsoniter.Stream) {
	s.WriteUint64(uint64(v))
}

// quoted is written as a decimal inside a JSON string.
type quoted uint64

func (v quoted) encode(s *jsoniter.Stream) {
	s.WriteString(strconv.FormatUint(uint64(v), 10))
}

// marshal renders the document with no incidental whitespace.
func marshal(v value) ([]byte, error) {
	s := api.BorrowStream(nil)
	defer api.ReturnStream(s)

	v.encode(s)
	if s.Error != nil {
		return nil, s.Error
	}

	// The stream buffer goes back to the pool.
	out := make([]byte, len(s.Buffer()))
	copy(out, s.Buffer())

	return out, nil
}
