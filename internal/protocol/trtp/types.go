package trtp

// TransactionType identifies the operation carried by a transaction.
//
// The full enumeration is reproduced here (not just the handful of types
// this server actively handles) so that every recognized type is routed
// through the dispatcher and logged consistently rather than falling
// through to "unknown type" warnings. Types outside the handled set are
// either explicit stubs (news, private chat, file transfer — out of scope)
// or already fully implemented (login, chat, account management).
type TransactionType uint16

const (
	// Chat / news range.
	TypeGetMessages    TransactionType = 101
	TypeNewMessage     TransactionType = 102
	TypeOldPostNews    TransactionType = 103
	TypeServerMessage  TransactionType = 104
	TypeSendChat       TransactionType = 105
	TypeChatMessage    TransactionType = 106
	TypeLogin          TransactionType = 107
	TypeSendInstantMsg TransactionType = 108
	TypeShowAgreement  TransactionType = 109
	TypeDisconnectUser TransactionType = 110
	TypeDisconnectMsg  TransactionType = 111

	// Private chat rooms — recognized, stubbed (out of scope).
	TypeInviteNewChat         TransactionType = 112
	TypeInviteToChat          TransactionType = 113
	TypeRejectChatInvite      TransactionType = 114
	TypeJoinChat              TransactionType = 115
	TypeLeaveChat             TransactionType = 116
	TypeNotifyChatChangeUser  TransactionType = 117
	TypeNotifyChatDeleteUser  TransactionType = 118
	TypeNotifyChatSubject     TransactionType = 119
	TypeSetChatSubject        TransactionType = 120
	TypeAgreed                TransactionType = 121
	TypeServerBanner          TransactionType = 122

	// File transfer (HTXF) range — recognized, stubbed (out of scope).
	TypeGetFileNameList TransactionType = 200
	TypeDownloadFile    TransactionType = 202
	TypeUploadFile      TransactionType = 203
	TypeDeleteFile      TransactionType = 204
	TypeNewFolder       TransactionType = 205
	TypeGetFileInfo     TransactionType = 206
	TypeSetFileInfo     TransactionType = 207
	TypeMoveFile        TransactionType = 208
	TypeMakeFileAlias   TransactionType = 209
	TypeDownloadFolder  TransactionType = 210
	TypeDownloadInfo    TransactionType = 211
	TypeDownloadBanner  TransactionType = 212
	TypeUploadFolder    TransactionType = 213

	// Users.
	TypeGetUserNameList   TransactionType = 300
	TypeNotifyChangeUser  TransactionType = 301
	TypeNotifyDeleteUser  TransactionType = 302
	TypeGetClientInfoText TransactionType = 303
	TypeSetClientUserInfo TransactionType = 304

	// Accounts.
	TypeNewUser     TransactionType = 350
	TypeDeleteUser  TransactionType = 351
	TypeGetUser     TransactionType = 352
	TypeSetUser     TransactionType = 353
	TypeUserAccess  TransactionType = 354
	TypeUserBroadcast TransactionType = 355

	// News — recognized, stubbed (out of scope).
	TypeGetNewsCategoryNameList TransactionType = 370
	TypeGetNewsArticleNameList  TransactionType = 371
	TypeDeleteNewsItem          TransactionType = 380
	TypeNewNewsFolder           TransactionType = 381
	TypeNewNewsCategory         TransactionType = 382
	TypeGetNewsArticleData      TransactionType = 400
	TypePostNewsArticle         TransactionType = 410
	TypeDeleteNewsArticle       TransactionType = 411

	// Keepalive.
	TypeKeepConnectionAlive TransactionType = 500
)

// stubbedTypes are transaction types that are recognized (never logged as
// an unknown type) but whose feature area is out of scope. They dispatch
// to a shared handler that returns a benign, empty-success reply so that
// legacy clients probing these features don't stall or get disconnected.
var stubbedTypes = map[TransactionType]bool{
	TypeGetMessages: true, TypeNewMessage: true, TypeOldPostNews: true,
	TypeServerMessage: true, TypeSendInstantMsg: true, TypeShowAgreement: true,
	TypeDisconnectMsg: true,
	TypeInviteNewChat: true, TypeInviteToChat: true, TypeRejectChatInvite: true,
	TypeJoinChat: true, TypeLeaveChat: true, TypeNotifyChatChangeUser: true,
	TypeNotifyChatDeleteUser: true, TypeNotifyChatSubject: true, TypeSetChatSubject: true,
	TypeGetFileNameList: true, TypeDownloadFile: true, TypeUploadFile: true,
	TypeDeleteFile: true, TypeNewFolder: true, TypeGetFileInfo: true,
	TypeSetFileInfo: true, TypeMoveFile: true, TypeMakeFileAlias: true,
	TypeDownloadFolder: true, TypeDownloadInfo: true, TypeDownloadBanner: true,
	TypeUploadFolder: true,
	TypeGetNewsCategoryNameList: true, TypeGetNewsArticleNameList: true,
	TypeDeleteNewsItem: true, TypeNewNewsFolder: true, TypeNewNewsCategory: true,
	TypeGetNewsArticleData: true, TypePostNewsArticle: true, TypeDeleteNewsArticle: true,
}

// IsStubbed reports whether t is a recognized but out-of-scope transaction
// type (file transfer, news, private chat rooms).
func (t TransactionType) IsStubbed() bool {
	return stubbedTypes[t]
}

// IsRecognized reports whether t is any type named above, stubbed or not.
// Types outside this set are genuinely unknown to the protocol and are
// handled per the unknown-transaction-type policy (logged at warn, no
// reply), not via the stub path.
func (t TransactionType) IsRecognized() bool {
	if t.IsStubbed() {
		return true
	}
	switch t {
	case TypeSendChat, TypeChatMessage, TypeLogin, TypeDisconnectUser,
		TypeAgreed, TypeServerBanner, TypeGetUserNameList, TypeNotifyChangeUser,
		TypeNotifyDeleteUser, TypeGetClientInfoText, TypeSetClientUserInfo,
		TypeNewUser, TypeDeleteUser, TypeGetUser, TypeSetUser, TypeUserAccess,
		TypeUserBroadcast, TypeKeepConnectionAlive:
		return true
	default:
		return false
	}
}
