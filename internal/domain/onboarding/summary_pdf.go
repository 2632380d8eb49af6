package onboarding

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SummaryPDF renders the onboarding state of an employee with masked
// account and document numbers.
func (s *Service) SummaryPDF(ctx context.Context, tenantID, employeeID string) ([]byte, error) {
	e, err := s.employee(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	recs, err := s.load(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	snap := buildSnapshot(e, recs, s.clock.Now())

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Onboarding summary", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Onboarding summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	line := func(format string, args ...any) {
		pdf.Cell(0, 7, tr(fmt.Sprintf(format, args...)))
		pdf.Ln(6)
	}
	line("Employee: %s %s", e.FirstName, e.LastName)
	line("Email: %s", e.Email)
	line("Country: %s", e.CountryCode)
	if e.MaskedTaxID != "" {
		line("Tax id (%s): %s", e.TaxIDType, e.MaskedTaxID)
	}
	line("Status: %s", snap.Status)
	line("Progress: %d%%", snap.Percentage)
	pdf.Ln(4)

	heading := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
	}

	heading("Steps")
	for _, step := range stepOrder {
		mark := "missing"
		if snap.done(step) {
			mark = "done"
		}
		line("%-20s %s", step, mark)
	}
	if len(snap.MissingRequiredDocuments) > 0 {
		line("Required documents outstanding: %s", strings.Join(snap.MissingRequiredDocuments, ", "))
	}

	heading("Addresses")
	for _, a := range recs.addresses {
		line("%s%s: %s, %s %s, %s", a.AddressType, primaryTag(a.IsPrimary), a.Line1, a.PostalCode, a.City, a.CountryCode)
	}
	heading("Emergency contacts")
	for _, c := range recs.contacts {
		line("%d. %s (%s) %s", c.Priority, c.FullName, strings.ToLower(c.Relationship), c.PrimaryPhone)
	}
	heading("Identity documents")
	for _, d := range recs.documents {
		line("%s %s: %s", d.DocumentTypeCode, d.MaskedNumber, d.EffectiveStatus(snap.ComputedAt))
	}
	heading("Bank accounts")
	for _, a := range recs.accounts {
		line("%d. %s %s %s%s: %s", a.Priority, a.BankCountryCode, a.Currency, a.MaskedNumber, primaryTag(a.IsPrimary), a.VerificationStatus)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render onboarding summary: %w", err)
	}
	return buf.Bytes(), nil
}

func primaryTag(primary bool) string {
	if primary {
		return " (primary)"
	}
	return ""
}
