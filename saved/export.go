package saved

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"recipebox/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const (
	rowHeight = 34.0
	qrSize    = 28.0
	pageLimit = 265.0
)

// PageURL returns the public page for a recipe id.
func (s *Service) PageURL(recipeID string) string {
	if strings.Contains(s.pageURL, "%s") {
		return fmt.Sprintf(s.pageURL, recipeID)
	}
	return strings.TrimRight(s.pageURL, "/") + "/" + recipeID
}

// ExportPDF writes a printable sheet of the account's saved recipes to w.
// Each row carries a QR code linking to the recipe page.
func (s *Service) ExportPDF(ctx context.Context, accountID string, w io.Writer) error {
	acct, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	acct.Normalize()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Saved recipes", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Saved recipes")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, models.ProfileOf(acct).FullName)
	pdf.Ln(12)

	if len(acct.SavedRecipes) == 0 {
		pdf.SetFont("Arial", "I", 12)
		pdf.Cell(0, 10, "No saved recipes yet.")
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for i, ref := range acct.SavedRecipes {
		if pdf.GetY()+rowHeight > pageLimit {
			pdf.AddPage()
		}
		y := pdf.GetY()

		link := s.PageURL(ref.ID)
		qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("qr for %s: %w", ref.ID, err)
		}
		name := fmt.Sprintf("qr-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(qrPNG))
		pdf.ImageOptions(name, 170, y, qrSize, qrSize, false, opts, 0, link)

		pdf.SetXY(10, y+2)
		pdf.SetFont("Arial", "B", 13)
		pdf.MultiCell(155, 7, tr(fmt.Sprintf("%d. %s", i+1, ref.Title)), "", "L", false)
		pdf.SetFont("Arial", "", 9)
		pdf.SetX(10)
		pdf.CellFormat(155, 6, tr("Recipe: "+ref.ID), "", 1, "L", false, 0, link)
		if ref.Image != "" {
			pdf.SetX(10)
			pdf.CellFormat(155, 6, tr("Image: "+ref.Image), "", 1, "L", false, 0, "")
		}
		pdf.SetY(y + rowHeight)
		pdf.Line(10, y+rowHeight-2, 200, y+rowHeight-2)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
