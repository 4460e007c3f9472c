package entity

type Ticket struct {
	ID         int64  `json:"-" db:"id"`
	TicketID   string `json:"ticket_id" db:"ticket_id"`
	HolderName string `json:"holder_name" db:"holder_name"`
	Used       bool   `json:"used" db:"used"`
}
