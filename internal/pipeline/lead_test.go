package pipeline_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/pipeline"
)

func TestSaveLead_Create(t *testing.T) {
	input := pipeline.LeadInput{
		Name:    "Carlos",
		Company: "Gamma",
		Ticket:  1500,
		StageID: "s1",
		Owner:   "Ana",
		Service: "Tráfego pago",
		Email:   "carlos@gamma.com",
		Phone:   "(11) 98888-7777",
	}

	next, intent, lead, err := pipeline.SaveLead(boardState(), input, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.ID == "" {
		t.Error("expected generated lead id")
	}
	if len(next.Leads) != 3 {
		t.Errorf("expected 3 leads, got %d", len(next.Leads))
	}
	if intent.Effects[0].Kind != domain.EffectInsert {
		t.Errorf("expected insert effect, got %s", intent.Effects[0].Kind)
	}
}

func TestSaveLead_Update(t *testing.T) {
	input := pipeline.LeadInput{
		ID:      "l1",
		Name:    "João Silva",
		Company: "Acme",
		Ticket:  9000,
		StageID: "s2",
		Owner:   "Ana",
		Service: "Social",
	}

	next, intent, lead, err := pipeline.SaveLead(boardState(), input, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Ticket != 9000 || lead.Name != "João Silva" {
		t.Errorf("unexpected lead after update: %+v", lead)
	}
	if len(next.Leads) != 2 {
		t.Errorf("update must not add a lead, got %d", len(next.Leads))
	}
	if intent.Effects[0].Kind != domain.EffectUpdate || intent.Effects[0].ID != "l1" {
		t.Errorf("unexpected effect: %+v", intent.Effects[0])
	}
}

func TestSaveLead_ReportsAllFieldErrorsTogether(t *testing.T) {
	input := pipeline.LeadInput{
		Name:    "",
		Company: "",
		Ticket:  5_000_000_000, // above ceiling
		StageID: "s1",
		Owner:   "Ana",
		Service: "SEO",
		Email:   "not-an-email",
		Phone:   "abc!",
	}

	_, _, _, err := pipeline.SaveLead(boardState(), input, testNow)
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) < 5 {
		t.Errorf("expected all failed fields reported together, got %d: %v", len(verr.Fields), verr.Fields)
	}

	seen := make(map[string]bool)
	for _, f := range verr.Fields {
		seen[f.Field] = true
	}
	for _, want := range []string{"name", "company", "ticket", "email", "phone"} {
		if !seen[want] {
			t.Errorf("missing field error for %q in %v", want, verr.Fields)
		}
	}
}

func TestSaveLead_SanitizesMarkup(t *testing.T) {
	input := pipeline.LeadInput{
		Name:    "  <b>Carlos</b> ",
		Company: "<script>alert(1)</script>Gamma",
		Notes:   "ligar <i>amanhã</i>",
		StageID: "s1",
		Owner:   "Ana",
		Service: "SEO",
	}

	_, _, lead, err := pipeline.SaveLead(boardState(), input, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Name != "Carlos" {
		t.Errorf("expected sanitized name, got %q", lead.Name)
	}
	if strings.Contains(lead.Company, "<") || strings.Contains(lead.Notes, "<") {
		t.Errorf("markup survived sanitization: %q / %q", lead.Company, lead.Notes)
	}
}

func TestSaveLead_UnknownStage(t *testing.T) {
	input := pipeline.LeadInput{
		Name:    "Carlos",
		Company: "Gamma",
		StageID: "ghost",
		Owner:   "Ana",
		Service: "SEO",
	}

	_, _, _, err := pipeline.SaveLead(boardState(), input, testNow)
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteLead(t *testing.T) {
	next, intent, err := pipeline.DeleteLead(boardState(), "l1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.LeadByID("l1") != nil {
		t.Error("expected lead removed")
	}
	if intent.Effects[0].Kind != domain.EffectDelete {
		t.Errorf("expected delete effect, got %s", intent.Effects[0].Kind)
	}
}
