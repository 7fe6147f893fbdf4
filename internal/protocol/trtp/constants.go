// Package trtp implements the wire codec for the legacy TRTP chat/file-sharing
// protocol: transaction framing, the field list format, the client/server
// handshake, the access-mask bitfield, and password scrambling.
//
// The package has no knowledge of sessions, server state, or handlers — it
// only turns bytes into Transactions and back.
package trtp

// Wire-level constants shared by the handshake and transaction header.
const (
	// DefaultPort is the default TCP port for the chat/file protocol.
	DefaultPort = 5500

	// DefaultTrackerPort is the default TCP port for the tracker protocol.
	DefaultTrackerPort = 5498

	// MaxTransactionSize is the largest permitted data_size on an inbound
	// transaction. Anything larger is rejected with ErrTooLarge before any
	// field is decoded.
	MaxTransactionSize = 32768

	// MaxFieldSize is the largest permitted single field payload.
	MaxFieldSize = 32768

	// MaxChatSize is the largest permitted chat message body.
	MaxChatSize = 8192

	// MaxUsernameSize is the largest permitted username length.
	MaxUsernameSize = 31

	// MaxLoginSize is the largest permitted login length.
	MaxLoginSize = 31

	// MaxPasswordSize is the largest permitted password length.
	MaxPasswordSize = 31

	// MaxPathSize is the largest permitted encoded path length.
	MaxPathSize = 2048

	// ServerVersion is the protocol version this server reports in the
	// Version field of its Login reply.
	ServerVersion = 197

	// ProtocolVersion is the sub-protocol version the handshake negotiates.
	ProtocolVersion = 1
)

// protocolMagic is the 4-byte magic that opens a client handshake.
var protocolMagic = [4]byte{'T', 'R', 'T', 'P'}

// htxfMagic is the 4-byte magic for the file-transfer sub-protocol.
// Recognized so a misdirected HTXF connection fails fast with a clear
// error instead of being parsed as a chat transaction; the file-transfer
// protocol itself is out of scope.
var htxfMagic = [4]byte{'H', 'T', 'X', 'F'}

// Header byte layout, all fields big-endian.
const (
	headerSize    = 20
	fieldHeaderSize = 4 // u16 id + u16 size, before the payload bytes
)
