package trtp

import (
	"encoding/binary"
	"unicode/utf8"
)

// Field is one entry of a transaction's field list: an id and its raw
// payload bytes. Interpretation (integer, string, or opaque binary) is
// derived from the id via KindOf, not stored on the Field itself.
type Field struct {
	ID  FieldID
	Raw []byte
}

// knownFieldIDs is the full set of field ids this codec assigns a static
// kind to. A field id outside this set is still decoded structurally (the
// wire format is self-describing: id + length + bytes), but per policy is
// treated as opaque and is not forwarded to handlers — see IsKnown.
var knownFieldIDs = buildKnownFieldIDs()

func buildKnownFieldIDs() map[FieldID]bool {
	m := map[FieldID]bool{}
	for id := range integerFields {
		m[id] = true
	}
	for id := range stringFields {
		m[id] = true
	}
	// Binary-kind fields with no dedicated classification but still
	// recognized by the protocol.
	for _, id := range []FieldID{
		FieldUserAccess, FieldFileResumeData, FieldFileCreateDate, FieldFileModifyDate,
		FieldNoServerAgreement, FieldFileNameWithInfo, FieldUserNameWithInfo,
		FieldNewsArticleDataFlavor, FieldNewsArticlePrevArt, FieldNewsArticleNextArt,
		FieldNewsArticleData, FieldNewsArticleFlags, FieldNewsArticleParentArt,
		FieldNewsArticle1stChildArt, FieldNewsCategoryGUID, FieldNewsCategoryListData,
	} {
		m[id] = true
	}
	return m
}

// IsKnown reports whether f's id is part of the protocol's field table.
// Unknown fields are not an error (the wire format is self-describing) but
// are surfaced to callers as opaque bytes to log and discard, never handed
// to a transaction handler. This is an intentional relaxation of the
// stricter behavior in the legacy reference implementation, which treats an
// unrecognized field id as a hard decode error; the daemon favors staying
// connected over a single malformed or newer-client field killing the
// session.
func (f Field) IsKnown() bool {
	return knownFieldIDs[f.ID]
}

// AsInteger interprets the field payload as a big-endian unsigned integer.
// ok is false if the field is not classified as KindInteger or the payload
// length is neither 2 nor 4 bytes.
func (f Field) AsInteger() (value uint32, ok bool) {
	if KindOf(f.ID) != KindInteger {
		return 0, false
	}
	switch len(f.Raw) {
	case 2:
		return uint32(binary.BigEndian.Uint16(f.Raw)), true
	case 4:
		return binary.BigEndian.Uint32(f.Raw), true
	default:
		return 0, false
	}
}

// AsString interprets the field payload as UTF-8 text. ok is false if the
// field is not classified as KindString or the payload is not valid UTF-8 —
// per field-codec policy, such fields are treated as opaque binary rather
// than erroring.
func (f Field) AsString() (value string, ok bool) {
	if KindOf(f.ID) != KindString {
		return "", false
	}
	if !utf8.Valid(f.Raw) {
		return "", false
	}
	return string(f.Raw), true
}

// EncodeFields serializes a field list as count (u16) followed by each
// field's id (u16), size (u16), and raw payload.
func EncodeFields(fields []Field) []byte {
	size := 2
	for _, f := range fields {
		size += fieldHeaderSize + len(f.Raw)
	}
	buf := make([]byte, size)
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(fields)))
	off := 2
	for _, f := range fields {
		binary.BigEndian.PutUint16(buf[off:off+2], uint16(f.ID))
		binary.BigEndian.PutUint16(buf[off+2:off+4], uint16(len(f.Raw)))
		off += 4
		copy(buf[off:], f.Raw)
		off += len(f.Raw)
	}
	return buf
}

// DecodeFields parses a field list out of data. The list format is
// self-describing, so decoding never needs to recognize a field id to
// extract its bytes; ErrInvalidFieldData is returned only when a declared
// field size overruns the remaining buffer (a truly malformed frame, not
// merely an unrecognized field).
func DecodeFields(data []byte) ([]Field, error) {
	if len(data) < 2 {
		if len(data) == 0 {
			return nil, nil
		}
		return nil, ErrInvalidFieldData
	}
	count := binary.BigEndian.Uint16(data[0:2])
	fields := make([]Field, 0, count)
	off := 2
	for i := uint16(0); i < count; i++ {
		if off+fieldHeaderSize > len(data) {
			return nil, ErrInvalidFieldData
		}
		id := FieldID(binary.BigEndian.Uint16(data[off : off+2]))
		size := int(binary.BigEndian.Uint16(data[off+2 : off+4]))
		off += fieldHeaderSize
		if size > MaxFieldSize || off+size > len(data) {
			return nil, ErrInvalidFieldData
		}
		raw := make([]byte, size)
		copy(raw, data[off:off+size])
		off += size
		fields = append(fields, Field{ID: id, Raw: raw})
	}
	return fields, nil
}

// FilterKnown splits fields into the subset this codec recognizes and the
// ids of those it doesn't. Per field-codec policy (§4.1), unrecognized
// fields are syntactically valid -- the wire format is self-describing --
// but are never forwarded to a transaction handler; callers use the
// returned ids only for logging.
func FilterKnown(fields []Field) (known []Field, discardedIDs []FieldID) {
	known = make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.IsKnown() {
			known = append(known, f)
			continue
		}
		discardedIDs = append(discardedIDs, f.ID)
	}
	return known, discardedIDs
}

// Get returns the first field with the given id, if present.
func Get(fields []Field, id FieldID) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Uint16Field builds a 2-byte big-endian integer field.
func Uint16Field(id FieldID, value uint16) Field {
	raw := make([]byte, 2)
	binary.BigEndian.PutUint16(raw, value)
	return Field{ID: id, Raw: raw}
}

// Uint32Field builds a 4-byte big-endian integer field.
func Uint32Field(id FieldID, value uint32) Field {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint32(raw, value)
	return Field{ID: id, Raw: raw}
}

// StringField builds a field from UTF-8 text.
func StringField(id FieldID, value string) Field {
	return Field{ID: id, Raw: []byte(value)}
}

// BytesField builds a field from raw bytes, copying the input so the
// caller's slice can be reused or mutated afterward.
func BytesField(id FieldID, value []byte) Field {
	raw := make([]byte, len(value))
	copy(raw, value)
	return Field{ID: id, Raw: raw}
}
