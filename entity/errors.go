package entity

import "errors"

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketAlreadyUsed   = errors.New("ticket already used")
	ErrTicketAlreadyExists = errors.New("ticket already exists")
)
