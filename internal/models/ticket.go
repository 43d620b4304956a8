package models

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus is the lifecycle state of a support ticket.
// CLOSED is terminal: no reply or status change is accepted afterwards.
type TicketStatus string

const (
	TicketOpen      TicketStatus = "OPEN"
	TicketResponded TicketStatus = "RESPONDED"
	TicketClosed    TicketStatus = "CLOSED"
)

// ParseTicketStatus converts a case-insensitive string into a TicketStatus,
// rejecting anything outside the known set.
func ParseTicketStatus(s string) (TicketStatus, error) {
	switch TicketStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case TicketOpen:
		return TicketOpen, nil
	case TicketResponded:
		return TicketResponded, nil
	case TicketClosed:
		return TicketClosed, nil
	}
	return "", fmt.Errorf("unknown ticket status %q", s)
}

// TicketPriority is the urgency of a support ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

// ParseTicketPriority converts a case-insensitive string into a TicketPriority.
func ParseTicketPriority(s string) (TicketPriority, error) {
	switch TicketPriority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown ticket priority %q", s)
}

// SupportTicket is a user-raised support request with threaded messages.
// Tickets are never deleted.
type SupportTicket struct {
	Base
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	ProductID   *uint          `json:"product_id,omitempty"`
	Subject     string         `gorm:"not null" json:"subject"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Status      TicketStatus   `gorm:"not null" json:"status"`
	Priority    TicketPriority `gorm:"not null" json:"priority"`

	User     User               `gorm:"foreignKey:UserID" json:"-"`
	Product  *InvestmentProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Messages []TicketMessage    `gorm:"foreignKey:TicketID" json:"messages,omitempty"`
}

// TicketMessage is one entry in a ticket's conversation thread.
// Messages are append-only and ordered by Timestamp ascending.
type TicketMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TicketID   uint      `gorm:"not null;index" json:"ticket_id"`
	SenderID   uint      `gorm:"not null" json:"sender_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	SenderType UserRole  `gorm:"not null" json:"sender_type"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`

	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}
