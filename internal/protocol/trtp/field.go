package trtp

// FieldID identifies the semantic meaning of a field within a transaction's
// field list.
type FieldID uint16

const (
	FieldData            FieldID = 101
	FieldUserName        FieldID = 102
	FieldUserID          FieldID = 103
	FieldUserIconID       FieldID = 104
	FieldUserLogin        FieldID = 105
	FieldUserPassword     FieldID = 106
	FieldReferenceNumber  FieldID = 107
	FieldTransferSize     FieldID = 108
	FieldChatOptions      FieldID = 109
	FieldUserAccess       FieldID = 110
	FieldUserAlias        FieldID = 111
	FieldUserFlags        FieldID = 112
	FieldOptions          FieldID = 113
	FieldChatID           FieldID = 114
	FieldChatSubject      FieldID = 115
	FieldWaitingCount     FieldID = 116

	FieldFileName            FieldID = 201
	FieldFilePath             FieldID = 202
	FieldFileResumeData       FieldID = 203
	FieldFileTransferOptions  FieldID = 204
	FieldFileTypeString       FieldID = 205
	FieldFileCreatorString    FieldID = 206
	FieldFileSize             FieldID = 207
	FieldFileCreateDate       FieldID = 208
	FieldFileModifyDate       FieldID = 209
	FieldFileComment          FieldID = 210
	FieldFileNewName          FieldID = 211
	FieldFileNewPath          FieldID = 212
	FieldFileType             FieldID = 213
	FieldQuotingMsg           FieldID = 214
	FieldAutomaticResponse    FieldID = 215

	FieldServerAgreement   FieldID = 151
	FieldServerBanner      FieldID = 152
	FieldServerBannerType  FieldID = 153
	FieldServerBannerURL   FieldID = 154
	FieldNoServerAgreement FieldID = 155
	FieldVersion           FieldID = 160
	FieldBannerID          FieldID = 161
	FieldServerName        FieldID = 162

	FieldFileNameWithInfo FieldID = 200
	FieldUserNameWithInfo FieldID = 300

	FieldNewsArticleID         FieldID = 320
	FieldNewsArticleDataFlavor FieldID = 321
	FieldNewsArticleTitle      FieldID = 322
	FieldNewsArticlePoster     FieldID = 323
	FieldNewsArticleDate       FieldID = 324
	FieldNewsArticlePrevArt    FieldID = 325
	FieldNewsArticleNextArt    FieldID = 326
	FieldNewsArticleData       FieldID = 327
	FieldNewsArticleFlags      FieldID = 328
	FieldNewsArticleParentArt  FieldID = 329
	FieldNewsArticle1stChildArt FieldID = 330
	FieldNewsCategoryGUID      FieldID = 331
	FieldNewsCategoryListData  FieldID = 332
	FieldNewsCategoryName      FieldID = 333
	FieldNewsPath              FieldID = 335
)

// FieldKind is the interpretation a codec applies to a field's raw bytes.
// This is a compile-time property of the field id, not something carried on
// the wire: the wire format only has id + length-prefixed bytes.
type FieldKind int

const (
	// KindBinary is the default for any field id not otherwise classified,
	// and for string-typed fields that fail UTF-8 validation.
	KindBinary FieldKind = iota
	// KindInteger covers 2-byte and 4-byte big-endian integer fields.
	KindInteger
	// KindString covers UTF-8 text fields (falls back to KindBinary on
	// invalid UTF-8, per field-codec policy).
	KindString
)

// integerFields are decoded as KindInteger when their payload is exactly 2
// or 4 bytes; any other length falls back to KindBinary, since a malformed
// integer field is still well-formed at the field-list level.
var integerFields = map[FieldID]bool{
	FieldUserID: true, FieldUserIconID: true, FieldChatID: true,
	FieldChatOptions: true, FieldOptions: true, FieldUserFlags: true,
	FieldVersion: true, FieldReferenceNumber: true, FieldWaitingCount: true,
	FieldTransferSize: true, FieldBannerID: true, FieldFileTransferOptions: true,
	FieldFileType: true,
}

// stringFields attempt UTF-8 decode, falling back to KindBinary on failure.
var stringFields = map[FieldID]bool{
	FieldUserName: true, FieldServerName: true, FieldChatSubject: true,
	FieldFileName: true, FieldFileComment: true, FieldFilePath: true,
	FieldFileNewName: true, FieldFileNewPath: true, FieldUserAlias: true,
	FieldAutomaticResponse: true, FieldQuotingMsg: true, FieldServerAgreement: true,
	FieldServerBanner: true, FieldServerBannerURL: true, FieldFileTypeString: true,
	FieldFileCreatorString: true, FieldNewsArticleTitle: true, FieldNewsArticlePoster: true,
	FieldNewsCategoryName: true, FieldNewsPath: true, FieldData: true,
}

// KindOf returns the static type classification for a field id. FieldUserAccess
// is deliberately excluded from integerFields: it is always 8 raw bytes,
// decoded separately via AccessMask's own wire codec rather than as a plain
// integer.
func KindOf(id FieldID) FieldKind {
	if integerFields[id] {
		return KindInteger
	}
	if stringFields[id] {
		return KindString
	}
	return KindBinary
}
