package models

import "time"

// SupportTicket is a help request opened by a user and handled by staff
type SupportTicket struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Subject     string    `json:"subject"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AssignedTo  *int64    `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var SupportTicketSchema = Schema{
	Entity: "support_ticket",
	Fields: []Field{
		{Name: "user_id", Kind: Int, Required: true},
		{Name: "subject", Kind: String, Required: true},
		{Name: "description", Kind: String},
		{Name: "status", Kind: String, Enum: TicketStatuses, Default: TicketOpen},
		{Name: "priority", Kind: String, Enum: TicketPriorities, Default: PriorityMedium},
		{Name: "assigned_to", Kind: Int},
	},
}

func NewSupportTicket(fields map[string]any) (*SupportTicket, error) {
	return construct[SupportTicket](SupportTicketSchema, fields)
}

func (t SupportTicket) ToMap() map[string]any { return toMap(t) }

// TicketMessage is one reply on a support ticket
type TicketMessage struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	SenderID  int64     `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var TicketMessageSchema = Schema{
	Entity: "ticket_message",
	Fields: []Field{
		{Name: "ticket_id", Kind: Int, Required: true},
		{Name: "sender_id", Kind: Int, Required: true},
		{Name: "message", Kind: String, Required: true},
	},
}

func NewTicketMessage(fields map[string]any) (*TicketMessage, error) {
	return construct[TicketMessage](TicketMessageSchema, fields)
}

func (m TicketMessage) ToMap() map[string]any { return toMap(m) }
