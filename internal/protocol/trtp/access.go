package trtp

import "math/bits"

// AccessMask is the 64-bit account privilege bitfield. Bit positions below
// match the legacy reference implementation exactly; renumbering any of
// them would silently break interoperability with real clients, since the
// bit position — not a symbolic name — is what crosses the wire.
type AccessMask uint64

const (
	AccessDeleteFiles AccessMask = 1 << iota
	AccessUploadFiles
	AccessDownloadFiles
	AccessRenameFiles
	AccessMoveFiles
	AccessCreateFolders
	AccessDeleteFolders
	AccessRenameFolders
	AccessMoveFolders
	AccessReadChat
	AccessSendChat
	AccessCreatePrivateChat
	AccessCloseChat
	AccessShowInList
	AccessCreateUsers
	AccessDeleteUsers
	AccessOpenUser
	AccessModifyUsers
	AccessChangeOwnPassword
	AccessSendPrivateMessages
	AccessReadNews
	AccessPostNews
	AccessDisconnectUsers
	AccessCantBeDisconnected
	AccessGetUserInfo
	AccessUploadAnywhere
	AccessAnyName
	AccessNoAgreement
	AccessSetFileComment
	AccessSetFolderComment
	AccessViewDropBoxes
	AccessMakeAliases
	AccessBroadcast
	AccessDeleteNews
	AccessCreateNewsCategory
	AccessDeleteNewsCategory
	AccessCreateNewsBundle
	AccessDeleteNewsBundle
	AccessUploadFolders
	AccessDownloadFolders
	AccessSendMessages
	AccessFakeRed
	AccessAway
	AccessChangeNick
	AccessChangeIcon
	AccessSpeakBefore
	AccessRefuseChat
	AccessBlockDownload
	AccessVisible
	AccessCanViewInvisible
)

// Has reports whether every bit in want is set in m.
func (m AccessMask) Has(want AccessMask) bool {
	return m&want == want
}

// AccessSysop grants every defined privilege bit.
func AccessSysop() AccessMask {
	var m AccessMask
	for bit := AccessMask(1); bit != 0 && bit <= AccessCanViewInvisible; bit <<= 1 {
		m |= bit
	}
	return m
}

// AccessAdmin grants every privilege except AccessCantBeDisconnected, so an
// admin can still be kicked by another admin or via the operator API.
func AccessAdmin() AccessMask {
	return AccessSysop() &^ AccessCantBeDisconnected
}

// AccessGuest is the default unauthenticated/guest privilege set.
func AccessGuest() AccessMask {
	return AccessReadChat | AccessSendChat | AccessReadNews | AccessDownloadFiles
}

// AccessUser is the default privilege set for a newly created named account.
func AccessUser() AccessMask {
	return AccessReadChat | AccessSendChat | AccessCreatePrivateChat | AccessReadNews |
		AccessDownloadFiles | AccessUploadFiles | AccessSendMessages | AccessSendPrivateMessages
}

// AccessPreset resolves a named preset to its mask. ok is false for an
// unrecognized name.
func AccessPreset(name string) (AccessMask, bool) {
	switch name {
	case "sysop":
		return AccessSysop(), true
	case "admin":
		return AccessAdmin(), true
	case "user":
		return AccessUser(), true
	case "guest":
		return AccessGuest(), true
	default:
		return 0, false
	}
}

// ToWire encodes the mask using the historical bit-reversed little-endian
// layout: take the 8 little-endian bytes of the 64-bit value, then reverse
// the bits within each byte individually (not the byte order). This quirk
// traces back to a big-endian-oriented bitfield layout being serialized on
// little-endian hosts in the original client/server; every real deployment
// target today is little-endian, so this is the path always taken.
func (m AccessMask) ToWire() [8]byte {
	var out [8]byte
	for i := 0; i < 8; i++ {
		b := byte(m >> (8 * i))
		out[i] = bits.Reverse8(b)
	}
	return out
}

// AccessMaskFromWire decodes the bit-reversed little-endian layout produced
// by ToWire. It is the exact inverse: reverse each byte's bits, then treat
// the result as 8 little-endian bytes of a uint64.
func AccessMaskFromWire(wire [8]byte) AccessMask {
	var m AccessMask
	for i := 0; i < 8; i++ {
		b := bits.Reverse8(wire[i])
		m |= AccessMask(b) << (8 * i)
	}
	return m
}
