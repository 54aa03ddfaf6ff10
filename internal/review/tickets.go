package review

import (
	"sync"

	"github.com/sunvm/unik-registration-tg/internal/models"
)

// TicketRegistry holds the pending review tickets for applications whose
// reviewer notifications were sent by this process. Tickets are keyed by
// applicant: an applicant has at most one pending application at a time.
//
// The registry is in-memory only. After a restart the reconciliation path
// falls back to fresh messages instead of in-place edits.
type TicketRegistry struct {
	mu          sync.RWMutex
	byApplicant map[int64]*models.PendingReviewTicket
}

func NewTicketRegistry() *TicketRegistry {
	return &TicketRegistry{byApplicant: make(map[int64]*models.PendingReviewTicket)}
}

func (r *TicketRegistry) Put(ticket *models.PendingReviewTicket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byApplicant[ticket.ApplicantID] = ticket
}

func (r *TicketRegistry) Get(applicantID int64) (*models.PendingReviewTicket, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.byApplicant[applicantID]
	return ticket, ok
}

// Remove pops the applicant's ticket, returning it for reconciliation.
func (r *TicketRegistry) Remove(applicantID int64) (*models.PendingReviewTicket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.byApplicant[applicantID]
	if ok {
		delete(r.byApplicant, applicantID)
	}
	return ticket, ok
}
