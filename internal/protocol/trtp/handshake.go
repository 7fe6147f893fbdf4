package trtp

import (
	"encoding/binary"
	"io"
)

// ClientHandshake is the 12-byte greeting a client sends before any
// transaction: 4-byte magic, u32 sub-protocol id, u16 version, u16
// sub-version.
type ClientHandshake struct {
	SubProtocolID uint32
	Version       uint16
	SubVersion    uint16
}

// ReadClientHandshake reads and validates the 12-byte client handshake.
// ErrBadMagic is returned for anything other than "TRTP" (including the
// file-transfer "HTXF" magic, which belongs to an out-of-scope
// sub-protocol); ErrUnsupportedVersion is returned for a recognized magic
// carrying a version this server does not implement.
func ReadClientHandshake(r io.Reader) (*ClientHandshake, error) {
	buf := make([]byte, 12)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	var magic [4]byte
	copy(magic[:], buf[0:4])
	if magic != protocolMagic {
		return nil, ErrBadMagic
	}

	hs := &ClientHandshake{
		SubProtocolID: binary.BigEndian.Uint32(buf[4:8]),
		Version:       binary.BigEndian.Uint16(buf[8:10]),
		SubVersion:    binary.BigEndian.Uint16(buf[10:12]),
	}
	if hs.Version != ProtocolVersion {
		return hs, ErrUnsupportedVersion
	}
	return hs, nil
}

// ServerHandshakeReply is the 8-byte server response: 4-byte magic + u32
// error code.
func ServerHandshakeReply(code ErrorCode) []byte {
	buf := make([]byte, 8)
	copy(buf[0:4], protocolMagic[:])
	binary.BigEndian.PutUint32(buf[4:8], uint32(code))
	return buf
}

// HandshakeErrorCode maps a handshake failure to the wire error code sent
// in ServerHandshakeReply: bad magic reports 1 (unknown/malformed greeting),
// an unsupported version reports 2.
func HandshakeErrorCode(err error) ErrorCode {
	switch err {
	case ErrBadMagic:
		return ErrorCodeUnknown
	case ErrUnsupportedVersion:
		return ErrorCodePermissionDenied
	default:
		return ErrorCodeUnknown
	}
}

// IsHTXFMagic reports whether the given 4 bytes are the file-transfer
// sub-protocol's magic, useful for giving a clearer log message when a
// client opens the wrong port.
func IsHTXFMagic(b [4]byte) bool {
	return b == htxfMagic
}
