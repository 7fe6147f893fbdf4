package trtp

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Transaction is a single decoded TRTP transaction: a 20-byte header plus
// an (optionally empty) field list.
type Transaction struct {
	Flags     uint8
	IsReply   bool
	Type      TransactionType
	ID        uint32
	ErrorCode ErrorCode
	Fields    []Field
}

// Field looks up a field by id within this transaction.
func (t *Transaction) Field(id FieldID) (Field, bool) {
	return Get(t.Fields, id)
}

// ReadTransaction reads one complete transaction from r. It enforces
// MaxTransactionSize on the declared data_size before attempting to read
// the body, so an oversized declaration never causes an unbounded
// allocation or read.
func ReadTransaction(r *bufio.Reader) (*Transaction, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	flags := header[0]
	isReply := header[1] != 0
	typ := TransactionType(binary.BigEndian.Uint16(header[2:4]))
	id := binary.BigEndian.Uint32(header[4:8])
	errCode := binary.BigEndian.Uint32(header[8:12])
	// header[12:16] is total_size; data_size (header[16:20]) is the
	// authoritative length of the body that follows in this frame.
	dataSize := binary.BigEndian.Uint32(header[16:20])

	if dataSize > MaxTransactionSize {
		return nil, ErrTooLarge
	}

	body := make([]byte, dataSize)
	if dataSize > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, err
		}
	}

	fields, err := DecodeFields(body)
	if err != nil {
		return nil, err
	}

	return &Transaction{
		Flags:     flags,
		IsReply:   isReply,
		Type:      typ,
		ID:        id,
		ErrorCode: ErrorCodeFromUint32(errCode),
		Fields:    fields,
	}, nil
}

// Encode serializes the transaction to its wire form: 20-byte header
// followed by the field list. total_size and data_size are both set to the
// encoded field-list length; this codec never splits a reply across
// multiple frames.
func (t *Transaction) Encode() []byte {
	body := EncodeFields(t.Fields)

	buf := make([]byte, headerSize+len(body))
	buf[0] = t.Flags
	if t.IsReply {
		buf[1] = 1
	}
	binary.BigEndian.PutUint16(buf[2:4], uint16(t.Type))
	binary.BigEndian.PutUint32(buf[4:8], t.ID)
	binary.BigEndian.PutUint32(buf[8:12], uint32(t.ErrorCode))
	binary.BigEndian.PutUint32(buf[12:16], uint32(len(body)))
	binary.BigEndian.PutUint32(buf[16:20], uint32(len(body)))
	copy(buf[20:], body)
	return buf
}

// WriteTo writes the encoded transaction to w.
func (t *Transaction) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.Encode())
	return int64(n), err
}

// NewReply builds a reply transaction echoing the request's type and id,
// with the given error code and fields. Flags is always 0: it is a
// reserved header byte, distinct from the is_reply byte it sets.
func NewReply(typ TransactionType, requestID uint32, code ErrorCode, fields ...Field) *Transaction {
	return &Transaction{
		IsReply:   true,
		Type:      typ,
		ID:        requestID,
		ErrorCode: code,
		Fields:    fields,
	}
}

// NewPush builds a server-initiated transaction: is_reply=0 and id=0, per
// the protocol's convention for unsolicited notifications (ShowAgreement,
// UserAccess, ChatMessage broadcasts, NotifyDeleteUser, ...).
func NewPush(typ TransactionType, code ErrorCode, fields ...Field) *Transaction {
	return &Transaction{
		IsReply:   false,
		Type:      typ,
		ID:        0,
		ErrorCode: code,
		Fields:    fields,
	}
}
