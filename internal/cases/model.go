package cases

import "time"

const (
	StatusOpen    = "open"
	StatusSettled = "settled"
	StatusClosed  = "closed"
)

// Case is a legal matter grouping a client's documents and bills.
type Case struct {
	ID           string     `json:"id"`
	UserID       string     `json:"-"`
	Title        string     `json:"title"`
	ClientName   string     `json:"clientName"`
	IncidentDate *time.Time `json:"incidentDate,omitempty"`
	Status       string     `json:"status"`
	Description  string     `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusSettled, StatusClosed:
		return true
	}
	return false
}
