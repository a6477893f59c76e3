package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

type stubLeadRepo struct {
	leads map[string]*domain.Lead
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{leads: make(map[string]*domain.Lead)}
}

func cloneLead(l *domain.Lead) *domain.Lead {
	if l == nil {
		return nil
	}
	clone := *l
	clone.Notes = append([]domain.LeadNote(nil), l.Notes...)
	return &clone
}

func (r *stubLeadRepo) Create(_ context.Context, lead *domain.Lead) (*domain.Lead, error) {
	copy := cloneLead(lead)
	copy.ID = primitive.NewObjectID()
	copy.CreatedAt = time.Now().UTC()
	copy.UpdatedAt = copy.CreatedAt
	r.leads[copy.ID.Hex()] = cloneLead(copy)
	return cloneLead(copy), nil
}

func (r *stubLeadRepo) FindByID(_ context.Context, id string) (*domain.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	return cloneLead(l), nil
}

func (r *stubLeadRepo) FindOne(_ context.Context, _ ports.Filter) (*domain.Lead, error) {
	return nil, nil
}

func (r *stubLeadRepo) Find(_ context.Context, filter ports.Filter, opts ports.ListOptions) (*ports.Page[domain.Lead], error) {
	opts = opts.Normalize()

	var all []*domain.Lead
	for _, l := range r.leads {
		if status, ok := filter["status"]; ok && string(l.Status) != status {
			continue
		}
		if source, ok := filter["source"]; ok && string(l.Source) != source {
			continue
		}
		if svc, ok := filter["service"]; ok && l.Service != svc {
			continue
		}
		if assigned, ok := filter["assignedTo"]; ok {
			oid, _ := assigned.(primitive.ObjectID)
			if l.AssignedTo == nil || *l.AssignedTo != oid {
				continue
			}
		}
		all = append(all, cloneLead(l))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })

	total := int64(len(all))
	start := (opts.Page - 1) * opts.Limit
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	return &ports.Page[domain.Lead]{
		Data: all[start:end],
		Pagination: ports.Pagination{
			Total: total,
			Page:  opts.Page,
			Limit: opts.Limit,
			Pages: (total + opts.Limit - 1) / opts.Limit,
		},
	}, nil
}

func (r *stubLeadRepo) Update(_ context.Context, id string, set ports.Filter) (*domain.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	for key, value := range set {
		switch key {
		case "firstName":
			l.FirstName, _ = value.(string)
		case "email":
			l.Email, _ = value.(string)
		case "status":
			v, _ := value.(string)
			l.Status = domain.LeadStatus(v)
		case "source":
			v, _ := value.(string)
			l.Source = domain.LeadSource(v)
		case "service":
			l.Service, _ = value.(string)
		case "assignedTo":
			if value == nil {
				l.AssignedTo = nil
			} else if oid, ok := value.(primitive.ObjectID); ok {
				l.AssignedTo = &oid
			}
		case "lastContact":
			if value == nil {
				l.LastContact = nil
			} else if ts, ok := value.(time.Time); ok {
				l.LastContact = &ts
			}
		}
	}
	l.UpdatedAt = time.Now().UTC()
	return cloneLead(l), nil
}

func (r *stubLeadRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.leads[id]; !ok {
		return domain.ErrLeadNotFound
	}
	delete(r.leads, id)
	return nil
}

func (r *stubLeadRepo) Exists(_ context.Context, _ ports.Filter) (bool, error) {
	return false, nil
}

func (r *stubLeadRepo) AddNote(_ context.Context, id string, note domain.LeadNote) (*domain.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	l.Notes = append(l.Notes, note)
	ts := note.CreatedAt
	l.LastContact = &ts
	l.UpdatedAt = ts
	return cloneLead(l), nil
}

func (r *stubLeadRepo) SetStatus(_ context.Context, id string, status domain.LeadStatus, note domain.LeadNote) (*domain.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	l.Status = status
	ts := note.CreatedAt
	l.LastStatusChange = &ts
	l.Notes = append(l.Notes, note)
	l.UpdatedAt = ts
	return cloneLead(l), nil
}

func newLeadService(leads ports.LeadRepository, users ports.UserRepository) *LeadService {
	return NewLeadService(leads, users, zerolog.Nop())
}

func validLeadInput() ports.CreateLeadInput {
	return ports.CreateLeadInput{
		FirstName: "Rita",
		LastName:  "Kapoor",
		Email:     "Rita.Kapoor@Example.com",
		Phone:     "+91 98765 43210",
		Source:    "walk-in",
		Service:   "new-car-loan",
	}
}

func TestLeadService_Create_Defaults(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())

	lead, err := svc.Create(context.Background(), validLeadInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if lead.Status != domain.LeadStatusNew {
		t.Fatalf("expected default status %q, got %q", domain.LeadStatusNew, lead.Status)
	}
	if lead.Email != "rita.kapoor@example.com" {
		t.Fatalf("expected normalized email, got %q", lead.Email)
	}
	if lead.AssignedTo != nil {
		t.Fatalf("expected new lead to be unassigned")
	}
}

func TestLeadService_Create_InvalidPhone(t *testing.T) {
	svc := newLeadService(newStubLeadRepo(), newStubUserRepo())

	in := validLeadInput()
	in.Phone = "12345"
	_, err := svc.Create(context.Background(), in)
	var appErr *domain.AppError
	if !asAppError(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400 for bad phone, got %v", err)
	}
}

func TestLeadService_Create_InvalidEnums(t *testing.T) {
	svc := newLeadService(newStubLeadRepo(), newStubUserRepo())

	in := validLeadInput()
	in.Status = "contacted"
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatalf("expected error for unknown status")
	}

	in = validLeadInput()
	in.Source = "billboard"
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestLeadService_Create_BadAssignedTo(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())

	in := validLeadInput()
	in.AssignedTo = "not-an-object-id"
	_, err := svc.Create(context.Background(), in)
	var appErr *domain.AppError
	if !asAppError(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400 for malformed assignedTo, got %v", err)
	}
	if len(repo.leads) != 0 {
		t.Fatalf("lead persisted despite invalid reference")
	}
}

func TestLeadService_Create_WithInterestAndAssignee(t *testing.T) {
	users := newStubUserRepo()
	owner, _ := users.Create(context.Background(), &domain.User{
		FirstName: "Meera", LastName: "Shah", Email: "meera@example.com",
	})

	svc := newLeadService(newStubLeadRepo(), users)
	in := validLeadInput()
	in.AssignedTo = owner.ID.Hex()
	in.LastContact = "2026-08-01"
	in.Interest = &ports.LeadInterestInput{
		Car:   primitive.NewObjectID().Hex(),
		Make:  "Tata",
		Model: "Nexon",
		Year:  2024,
	}

	lead, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if lead.AssignedTo == nil || *lead.AssignedTo != owner.ID {
		t.Fatalf("assignedTo not set: %+v", lead.AssignedTo)
	}
	if lead.LastContact == nil || lead.LastContact.Format("2006-01-02") != "2026-08-01" {
		t.Fatalf("lastContact not parsed: %+v", lead.LastContact)
	}
	if lead.Interest == nil || lead.Interest.Car == nil {
		t.Fatalf("interest not carried: %+v", lead.Interest)
	}
}

func TestLeadService_List_FiltersAndFlags(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())

	for i := 0; i < 25; i++ {
		in := validLeadInput()
		in.Email = "lead" + string(rune('a'+i)) + "@example.com"
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("seed lead: %v", err)
		}
	}

	result, err := svc.List(context.Background(), ports.ListLeadsFilter{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Total != 25 || result.TotalPages != 3 {
		t.Fatalf("unexpected pagination: total=%d pages=%d", result.Total, result.TotalPages)
	}
	if len(result.Data) != 10 {
		t.Fatalf("expected 10 leads on page 2, got %d", len(result.Data))
	}
	if !result.HasNextPage || !result.HasPrevPage {
		t.Fatalf("expected both navigation flags on a middle page")
	}

	last, err := svc.List(context.Background(), ports.ListLeadsFilter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(last.Data) != 5 || last.HasNextPage || !last.HasPrevPage {
		t.Fatalf("unexpected last page: len=%d next=%v prev=%v", len(last.Data), last.HasNextPage, last.HasPrevPage)
	}

	filtered, err := svc.List(context.Background(), ports.ListLeadsFilter{Status: "sold"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if filtered.Total != 0 {
		t.Fatalf("expected no sold leads, got %d", filtered.Total)
	}
}

func TestLeadService_List_BadAssignedTo(t *testing.T) {
	svc := newLeadService(newStubLeadRepo(), newStubUserRepo())

	_, err := svc.List(context.Background(), ports.ListLeadsFilter{AssignedTo: "garbage"})
	var appErr *domain.AppError
	if !asAppError(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400 for malformed assignedTo filter, got %v", err)
	}
}

func TestLeadService_Update_StripsRestrictedFields(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())
	lead, _ := svc.Create(context.Background(), validLeadInput())

	updated, err := svc.Update(context.Background(), lead.ID.Hex(), ports.Filter{
		"firstName": "Renamed",
		"createdBy": primitive.NewObjectID(),
		"notes":     []string{"injected"},
		"_id":       primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.FirstName != "Renamed" {
		t.Fatalf("firstName not updated: %+v", updated)
	}
	if updated.ID != lead.ID {
		t.Fatalf("id changed through update")
	}
	if len(updated.Notes) != 0 {
		t.Fatalf("notes injected through update")
	}
}

func TestLeadService_Update_RejectsInvalidContactFields(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())
	lead, _ := svc.Create(context.Background(), validLeadInput())

	_, err := svc.Update(context.Background(), lead.ID.Hex(), ports.Filter{"email": "not-an-address"})
	var appErr *domain.AppError
	if !asAppError(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400 for malformed email, got %v", err)
	}

	_, err = svc.Update(context.Background(), lead.ID.Hex(), ports.Filter{"phone": "12345"})
	if !asAppError(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400 for malformed phone, got %v", err)
	}

	stored := repo.leads[lead.ID.Hex()]
	if stored.Email != lead.Email {
		t.Fatalf("invalid email reached the store: %q", stored.Email)
	}
}

func TestLeadService_Update_NormalizesEmail(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())
	lead, _ := svc.Create(context.Background(), validLeadInput())

	updated, err := svc.Update(context.Background(), lead.ID.Hex(), ports.Filter{"email": "  Priya.K@Example.COM "})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Email != "priya.k@example.com" {
		t.Fatalf("email not normalized: %q", updated.Email)
	}
}

func TestLeadService_Update_ClearsAssignee(t *testing.T) {
	users := newStubUserRepo()
	owner, _ := users.Create(context.Background(), &domain.User{FirstName: "Meera", LastName: "Shah", Email: "meera@example.com"})

	repo := newStubLeadRepo()
	svc := newLeadService(repo, users)
	in := validLeadInput()
	in.AssignedTo = owner.ID.Hex()
	lead, _ := svc.Create(context.Background(), in)

	updated, err := svc.Update(context.Background(), lead.ID.Hex(), ports.Filter{"assignedTo": nil})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.AssignedTo != nil {
		t.Fatalf("expected assignee cleared, got %v", updated.AssignedTo)
	}
}

func TestLeadService_AddNote(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())
	lead, _ := svc.Create(context.Background(), validLeadInput())
	author := primitive.NewObjectID()

	updated, err := svc.AddNote(context.Background(), lead.ID.Hex(), "  Called, interested in the Nexon  ", author.Hex())
	if err != nil {
		t.Fatalf("AddNote returned error: %v", err)
	}
	if len(updated.Notes) != 1 {
		t.Fatalf("expected exactly one note, got %d", len(updated.Notes))
	}
	note := updated.Notes[0]
	if note.Content != "Called, interested in the Nexon" {
		t.Fatalf("unexpected note content: %q", note.Content)
	}
	if note.CreatedBy != author {
		t.Fatalf("note author mismatch")
	}
	if updated.LastContact == nil || !updated.LastContact.Equal(note.CreatedAt) {
		t.Fatalf("lastContact not stamped with note time")
	}
}

func TestLeadService_AddNote_EmptyContent(t *testing.T) {
	svc := newLeadService(newStubLeadRepo(), newStubUserRepo())

	_, err := svc.AddNote(context.Background(), primitive.NewObjectID().Hex(), "   ", primitive.NewObjectID().Hex())
	var appErr *domain.AppError
	if !asAppError(err, &appErr) || appErr.Code != 400 || appErr.Message != "Note content is required" {
		t.Fatalf("expected 400 Note content is required, got %v", err)
	}
}

func TestLeadService_AddNote_MissingLead(t *testing.T) {
	svc := newLeadService(newStubLeadRepo(), newStubUserRepo())

	_, err := svc.AddNote(context.Background(), primitive.NewObjectID().Hex(), "hello", primitive.NewObjectID().Hex())
	if err != domain.ErrLeadNotFound {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestLeadService_UpdateStatus(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())
	lead, _ := svc.Create(context.Background(), validLeadInput())

	updated, err := svc.UpdateStatus(context.Background(), lead.ID.Hex(), "sold", primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != domain.LeadStatusSold {
		t.Fatalf("status not applied: %q", updated.Status)
	}
	if updated.LastStatusChange == nil {
		t.Fatalf("lastStatusChange not stamped")
	}
	if len(updated.Notes) != 1 || updated.Notes[0].Content != "Status changed to sold" {
		t.Fatalf("expected audit note, got %+v", updated.Notes)
	}
}

func TestLeadService_UpdateStatus_Invalid(t *testing.T) {
	svc := newLeadService(newStubLeadRepo(), newStubUserRepo())

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), "qualified", primitive.NewObjectID().Hex())
	var appErr *domain.AppError
	if !asAppError(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400 for unknown status, got %v", err)
	}
}

func TestLeadService_ExportCSV_Empty(t *testing.T) {
	svc := newLeadService(newStubLeadRepo(), newStubUserRepo())

	out, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}
	want := `"Name","Email","Phone","Status","Source","Service","Assigned To","Last Contact","Additional Details","Created At"`
	if string(out) != want {
		t.Fatalf("unexpected header row:\n got: %s\nwant: %s", out, want)
	}
}

func TestLeadService_ExportCSV(t *testing.T) {
	users := newStubUserRepo()
	owner, _ := users.Create(context.Background(), &domain.User{FirstName: "Meera", LastName: "Shah", Email: "meera@example.com"})

	repo := newStubLeadRepo()
	svc := newLeadService(repo, users)

	unassigned := validLeadInput()
	unassigned.Email = "a@example.com"
	if _, err := svc.Create(context.Background(), unassigned); err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	assigned := validLeadInput()
	assigned.Email = "b@example.com"
	assigned.FirstName = `Nina "NK"`
	assigned.AssignedTo = owner.ID.Hex()
	assigned.LastContact = "2026-08-10"
	assigned.AdditionalDetails = "Wants delivery, by Diwali"
	if _, err := svc.Create(context.Background(), assigned); err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	out, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}
	lines := strings.Split(string(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if strings.HasSuffix(string(out), "\n") {
		t.Fatalf("expected no trailing newline")
	}

	var unassignedRow, assignedRow string
	for _, line := range lines[1:] {
		if strings.Contains(line, `"a@example.com"`) {
			unassignedRow = line
		}
		if strings.Contains(line, `"b@example.com"`) {
			assignedRow = line
		}
	}
	if !strings.Contains(unassignedRow, `"Not assigned"`) || !strings.Contains(unassignedRow, `"No contact"`) || !strings.Contains(unassignedRow, `"None"`) {
		t.Fatalf("missing placeholder cells: %s", unassignedRow)
	}
	if !strings.Contains(assignedRow, `"Meera Shah"`) || !strings.Contains(assignedRow, `"2026-08-10"`) {
		t.Fatalf("assigned row not populated: %s", assignedRow)
	}
	if !strings.Contains(assignedRow, `"Nina ""NK"" Kapoor"`) {
		t.Fatalf("quotes not escaped: %s", assignedRow)
	}
	if !strings.Contains(assignedRow, `"Wants delivery, by Diwali"`) {
		t.Fatalf("comma cell not preserved intact: %s", assignedRow)
	}
}

func TestLeadService_Delete(t *testing.T) {
	repo := newStubLeadRepo()
	svc := newLeadService(repo, newStubUserRepo())
	lead, _ := svc.Create(context.Background(), validLeadInput())

	if err := svc.Delete(context.Background(), lead.ID.Hex()); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), lead.ID.Hex()); err != domain.ErrLeadNotFound {
		t.Fatalf("expected ErrLeadNotFound on second delete, got %v", err)
	}
}
