package market

import (
	"context"
	"fmt"
	"strings"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// TicketService manages support tickets and their conversation with staff
type TicketService struct {
	*CRUDService[models.SupportTicket]
	store *repository.Store
}

func NewTicketService(store *repository.Store) *TicketService {
	return &TicketService{
		CRUDService: NewCRUDService(store.Tickets, models.NewSupportTicket, Policy[models.SupportTicket]{
			OwnerColumn: "user_id",
			Owner:       func(t *models.SupportTicket) int64 { return t.UserID },
			PrivateRead: true,
		}),
		store: store,
	}
}

// Open files a new ticket for the caller
func (s *TicketService) Open(ctx context.Context, actor Actor, fields map[string]any) (*models.SupportTicket, error) {
	if !actor.IsStaff() {
		for _, key := range []string{"status", "assigned_to"} {
			if _, ok := fields[key]; ok {
				return nil, forbidden("set " + key + " on a new ticket")
			}
		}
	}
	return s.Create(ctx, actor, fields)
}

// Messages returns a page of the replies on a ticket, oldest first
func (s *TicketService) Messages(ctx context.Context, actor Actor, ticketID int64, q repository.Query) ([]models.TicketMessage, error) {
	if _, err := s.Get(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	messages, err := s.store.TicketMessagesOf(ctx, ticketID, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list messages of ticket %d: %w", ticketID, err)
	}
	return messages, nil
}

// Reply adds a message to a ticket. The ticket owner and staff may reply while it is not closed.
// A staff reply on an open ticket moves it to in progress.
func (s *TicketService) Reply(ctx context.Context, actor Actor, ticketID int64, text string) (*models.TicketMessage, error) {
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketClosed {
		return nil, fmt.Errorf("service: %w - ticket %d is closed", marketerrors.ErrInvalidInput, ticketID)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("service: %w - message is empty", marketerrors.ErrInvalidInput)
	}

	message, err := models.NewTicketMessage(map[string]any{
		"ticket_id": ticketID,
		"sender_id": actor.UserID,
		"message":   text,
	})
	if err != nil {
		return nil, fmt.Errorf("service: invalid ticket message: %w", err)
	}

	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.TicketMessages.Create(ctx, message); err != nil {
			return err
		}
		fields := map[string]any{}
		if actor.IsStaff() && ticket.Status == models.TicketOpen {
			fields["status"] = models.TicketInProgress
		}
		_, err := tx.Tickets.Update(ctx, ticketID, fields)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to reply to ticket %d: %w", ticketID, err)
	}
	return message, nil
}

// Assign hands a ticket to a staff member
func (s *TicketService) Assign(ctx context.Context, actor Actor, ticketID, assigneeID int64) (*models.SupportTicket, error) {
	if !actor.IsStaff() {
		return nil, forbidden(fmt.Sprintf("assign ticket %d", ticketID))
	}
	if assigneeID <= 0 {
		return nil, invalidID("user", assigneeID)
	}

	assignee, err := s.store.Users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load assignee %d: %w", assigneeID, err)
	}
	if !assignee.IsStaff() {
		return nil, fmt.Errorf("service: %w - user %d is not staff", marketerrors.ErrInvalidInput, assigneeID)
	}

	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"assigned_to": assigneeID}
	if ticket.Status == models.TicketOpen {
		fields["status"] = models.TicketInProgress
	}
	return s.Update(ctx, actor, ticketID, fields)
}

// UpdateStatus moves a ticket to status
func (s *TicketService) UpdateStatus(ctx context.Context, actor Actor, ticketID int64, status string) (*models.SupportTicket, error) {
	if !actor.IsStaff() {
		return nil, forbidden(fmt.Sprintf("update status of ticket %d", ticketID))
	}
	return s.Update(ctx, actor, ticketID, map[string]any{"status": status})
}
