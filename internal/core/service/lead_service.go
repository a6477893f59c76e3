package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

// LeadService implements ports.LeadService on top of the lead repository.
type LeadService struct {
	leads ports.LeadRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewLeadService(leads ports.LeadRepository, users ports.UserRepository, log zerolog.Logger) *LeadService {
	return &LeadService{leads: leads, users: users, log: log}
}

func (s *LeadService) Create(ctx context.Context, in ports.CreateLeadInput) (*domain.Lead, error) {
	if !domain.ValidPhone(in.Phone) {
		return nil, domain.NewValidationError("Please enter a valid phone number")
	}

	status := domain.LeadStatus(in.Status)
	if status == "" {
		status = domain.LeadStatusNew
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("Invalid lead status: " + in.Status)
	}
	if !domain.LeadSource(in.Source).Valid() {
		return nil, domain.NewValidationError("Invalid lead source: " + in.Source)
	}

	assignedTo, err := parseUserRef(in.AssignedTo)
	if err != nil {
		return nil, err
	}
	lastContact, err := parseDate("lastContact", in.LastContact)
	if err != nil {
		return nil, err
	}
	nextFollowUp, err := parseDate("nextFollowUp", in.NextFollowUp)
	if err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:             in.Phone,
		Status:            status,
		Source:            domain.LeadSource(in.Source),
		Service:           in.Service,
		AssignedTo:        assignedTo,
		LastContact:       lastContact,
		NextFollowUp:      nextFollowUp,
		Tags:              in.Tags,
		CustomFields:      in.CustomFields,
		AdditionalDetails: in.AdditionalDetails,
	}

	if in.Interest != nil {
		interest := &domain.LeadInterest{
			Make:   in.Interest.Make,
			Model:  in.Interest.Model,
			Year:   in.Interest.Year,
			Budget: in.Interest.Budget,
		}
		if in.Interest.Car != "" {
			carID, err := primitive.ObjectIDFromHex(in.Interest.Car)
			if err != nil {
				return nil, domain.NewValidationError("Invalid car reference: " + in.Interest.Car)
			}
			interest.Car = &carID
		}
		lead.Interest = interest
	}

	created, err := s.leads.Create(ctx, lead)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("lead_id", created.ID.Hex()).Str("source", string(created.Source)).Msg("lead created")
	return created, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.populateAssignees(ctx, lead)
	return lead, nil
}

func (s *LeadService) List(ctx context.Context, f ports.ListLeadsFilter) (*ports.LeadListResult, error) {
	filter := ports.Filter{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	if f.Service != "" {
		filter["service"] = f.Service
	}
	if f.AssignedTo != "" {
		oid, err := primitive.ObjectIDFromHex(f.AssignedTo)
		if err != nil {
			return nil, domain.NewValidationError("Invalid assignedTo reference: " + f.AssignedTo)
		}
		filter["assignedTo"] = oid
	}

	page, err := s.leads.Find(ctx, filter, ports.ListOptions{Page: f.Page, Limit: f.Limit})
	if err != nil {
		return nil, err
	}
	s.populateAssignees(ctx, page.Data...)

	p := page.Pagination
	return &ports.LeadListResult{
		Data:        page.Data,
		Total:       p.Total,
		Page:        p.Page,
		TotalPages:  p.Pages,
		HasNextPage: p.Page < p.Pages,
		HasPrevPage: p.Page > 1,
	}, nil
}

func (s *LeadService) Update(ctx context.Context, id string, fields ports.Filter) (*domain.Lead, error) {
	for _, restricted := range []string{"_id", "id", "createdAt", "createdBy", "notes"} {
		delete(fields, restricted)
	}

	if raw, ok := fields["assignedTo"]; ok {
		switch v := raw.(type) {
		case nil:
			fields["assignedTo"] = nil
		case string:
			ref, err := parseUserRef(v)
			if err != nil {
				return nil, err
			}
			if ref == nil {
				fields["assignedTo"] = nil
			} else {
				fields["assignedTo"] = *ref
			}
		default:
			return nil, domain.NewValidationError("Invalid assignedTo reference")
		}
	}

	if raw, ok := fields["lastContact"]; ok {
		v, _ := raw.(string)
		ts, err := parseDate("lastContact", v)
		if err != nil {
			return nil, err
		}
		if ts == nil {
			fields["lastContact"] = nil
		} else {
			fields["lastContact"] = *ts
		}
	}

	if raw, ok := fields["status"]; ok {
		v, _ := raw.(string)
		if !domain.LeadStatus(v).Valid() {
			return nil, domain.NewValidationError("Invalid lead status: " + v)
		}
	}
	if raw, ok := fields["source"]; ok {
		v, _ := raw.(string)
		if !domain.LeadSource(v).Valid() {
			return nil, domain.NewValidationError("Invalid lead source: " + v)
		}
	}
	if raw, ok := fields["email"]; ok {
		v, _ := raw.(string)
		v = strings.ToLower(strings.TrimSpace(v))
		if !domain.ValidEmail(v) {
			return nil, domain.NewValidationError("Please enter a valid email address")
		}
		fields["email"] = v
	}
	if raw, ok := fields["phone"]; ok {
		v, _ := raw.(string)
		if !domain.ValidPhone(v) {
			return nil, domain.NewValidationError("Please enter a valid phone number")
		}
	}

	lead, err := s.leads.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.populateAssignees(ctx, lead)
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	return s.leads.Delete(ctx, id)
}

func (s *LeadService) AddNote(ctx context.Context, id, content, authorID string) (*domain.Lead, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("Note content is required")
	}
	author, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, domain.NewValidationError("Invalid note author")
	}

	note := domain.LeadNote{
		Content:   content,
		CreatedBy: author,
		CreatedAt: time.Now().UTC(),
	}
	return s.leads.AddNote(ctx, id, note)
}

func (s *LeadService) UpdateStatus(ctx context.Context, id, status, authorID string) (*domain.Lead, error) {
	newStatus := domain.LeadStatus(status)
	if !newStatus.Valid() {
		return nil, domain.NewValidationError("Invalid lead status: " + status)
	}
	author, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, domain.NewValidationError("Invalid note author")
	}

	note := domain.LeadNote{
		Content:   "Status changed to " + status,
		CreatedBy: author,
		CreatedAt: time.Now().UTC(),
	}

	lead, err := s.leads.SetStatus(ctx, id, newStatus, note)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("lead_id", id).Str("status", status).Msg("lead status updated")
	return lead, nil
}

func (s *LeadService) ExportCSV(ctx context.Context) ([]byte, error) {
	var leads []*domain.Lead
	for page := int64(1); ; page++ {
		result, err := s.leads.Find(ctx, ports.Filter{}, ports.ListOptions{Page: page, Limit: ports.MaxLimit})
		if err != nil {
			return nil, err
		}
		leads = append(leads, result.Data...)
		if page >= result.Pagination.Pages {
			break
		}
	}
	s.populateAssignees(ctx, leads...)

	var b strings.Builder
	header := []string{"Name", "Email", "Phone", "Status", "Source", "Service", "Assigned To", "Last Contact", "Additional Details", "Created At"}
	writeCSVRow(&b, header)

	for _, lead := range leads {
		assigned := "Not assigned"
		if lead.Assignee != nil {
			assigned = lead.Assignee.FirstName + " " + lead.Assignee.LastName
		}
		lastContact := "No contact"
		if lead.LastContact != nil {
			lastContact = lead.LastContact.Format("2006-01-02")
		}
		details := lead.AdditionalDetails
		if details == "" {
			details = "None"
		}

		writeCSVRow(&b, []string{
			lead.FullName(),
			lead.Email,
			lead.Phone,
			string(lead.Status),
			string(lead.Source),
			lead.Service,
			assigned,
			lastContact,
			details,
			lead.CreatedAt.Format("2006-01-02"),
		})
	}

	// Rows are newline-joined without a trailing newline.
	return []byte(strings.TrimSuffix(b.String(), "\n")), nil
}

// populateAssignees resolves assignedTo references into UserSummary
// projections. Lookup failures are logged and skipped, never fatal to a read.
func (s *LeadService) populateAssignees(ctx context.Context, leads ...*domain.Lead) {
	cache := make(map[string]*domain.UserSummary)
	for _, lead := range leads {
		if lead == nil || lead.AssignedTo == nil {
			continue
		}
		id := lead.AssignedTo.Hex()
		summary, seen := cache[id]
		if !seen {
			user, err := s.users.FindByID(ctx, id)
			if err != nil {
				s.log.Warn().Err(err).Str("user_id", id).Msg("failed to resolve assigned user")
				cache[id] = nil
				continue
			}
			summary = &domain.UserSummary{
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Email:     user.Email,
			}
			cache[id] = summary
		}
		if summary != nil {
			lead.Assignee = summary
		}
	}
}

// parseUserRef validates an assignedTo input: empty means unassigned,
// anything else must be a well-formed ObjectID hex.
func parseUserRef(raw string) (*primitive.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, domain.NewValidationError("Invalid assignedTo reference: " + raw)
	}
	return &oid, nil
}

// parseDate coerces a date string to a timestamp; empty clears the field.
func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts, nil
		}
	}
	return nil, domain.NewValidationError("Invalid " + field + " date: " + raw)
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
