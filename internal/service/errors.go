package service

import "errors"

var (
	ErrNotMember             = errors.New("user is not a member of the conversation")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrSelfConversation      = errors.New("cannot start a conversation with yourself")
	ErrBookNotFound          = errors.New("book not found")
	ErrBookUnavailable       = errors.New("book is not available for exchange")
	ErrNotPending            = errors.New("exchange request is not pending")
	ErrNotProposer           = errors.New("only the proposer can cancel an exchange request")
	ErrProposerCannotConfirm = errors.New("the proposer cannot confirm their own exchange request")
)
