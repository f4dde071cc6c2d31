package shell

import (
	"errors"
	"fmt"

	"pdfqa/internal/models"
)

// The Describe functions turn typed errors into the messages users see. No
// other code formats failures as text.

func DescribeAnswerError(err error) string {
	if models.IsKind(err, models.KindNoDocumentLoaded) {
		return "No PDF content loaded. Please load a PDF first."
	}
	return "Error generating response: " + models.Detail(err)
}

func DescribeSummaryError(err error) string {
	if models.IsKind(err, models.KindNoDocumentLoaded) {
		return "No PDF content loaded."
	}
	return "Error generating summary: " + models.Detail(err)
}

// DescribeLoadError renders a failed load. Locator outcomes are reported as
// they are; extraction failures get the "Error loading PDF:" prefix.
func DescribeLoadError(err error) string {
	switch models.KindOf(err) {
	case models.KindNotFound:
		if errors.Is(err, models.ErrNoPDFFound) {
			return "No PDF files found in current directory!"
		}
		return "Error loading PDF: " + models.Detail(err)
	case models.KindUserCancelled:
		return "No PDF selected."
	case models.KindFileNotFound:
		return "Error loading PDF: PDF file not found!"
	case models.KindExtraction:
		var pf *models.PageFailures
		if errors.As(err, &pf) {
			return fmt.Sprintf("Error loading PDF: Error extracting text from image: %s (page %d, %d of %d pages failed)",
				models.Detail(pf.First.Err), pf.First.Number, pf.Failed, pf.Total)
		}
		return "Error loading PDF: Error processing PDF: " + models.Detail(err)
	default:
		return "Error loading PDF: " + models.Detail(err)
	}
}
