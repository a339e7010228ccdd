package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/costeo/internal/reports"
)

// Tickets lists every ticket in the order it was recorded.
func (s *Store) Tickets(ctx context.Context) ([]reports.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ticket_number, sold_at, is_glovo, items, total_venta, total_costo, total_profit
		FROM tickets
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	out := make([]reports.Ticket, 0)
	for rows.Next() {
		var (
			t      reports.Ticket
			soldAt string
			glovo  int
			items  string
		)
		if err := rows.Scan(&t.ID, &t.TicketNumber, &soldAt, &glovo, &items, &t.TotalVenta, &t.TotalCosto, &t.TotalProfit); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.Date, err = time.Parse(time.RFC3339Nano, soldAt)
		if err != nil {
			return nil, fmt.Errorf("parse date of ticket %s: %w", t.ID, err)
		}
		t.IsGlovo = glovo == 1
		if err := json.Unmarshal([]byte(items), &t.Items); err != nil {
			return nil, fmt.Errorf("decode items of ticket %s: %w", t.ID, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return out, nil
}

// CreateTicket appends a ticket. A zero TicketNumber takes the next one in
// sequence.
func (s *Store) CreateTicket(ctx context.Context, t reports.Ticket) (reports.Ticket, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Items == nil {
		t.Items = []reports.TicketItem{}
	}
	items, err := json.Marshal(t.Items)
	if err != nil {
		return reports.Ticket{}, fmt.Errorf("encode ticket items: %w", err)
	}

	err = s.inTx(ctx, "create ticket", func(tx *sql.Tx) error {
		if t.TicketNumber == 0 {
			if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(ticket_number), 0) + 1 FROM tickets`).Scan(&t.TicketNumber); err != nil {
				return fmt.Errorf("query next ticket number: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tickets (id, ticket_number, sold_at, is_glovo, items, total_venta, total_costo, total_profit)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.TicketNumber, t.Date.Format(time.RFC3339Nano), boolToInt(t.IsGlovo), string(items),
			t.TotalVenta, t.TotalCosto, t.TotalProfit); err != nil {
			return fmt.Errorf("insert ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return reports.Ticket{}, err
	}
	return t, nil
}

// DeleteTicket removes a ticket from history.
func (s *Store) DeleteTicket(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return checkAffected(res, "delete ticket "+id)
}
