package app

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"quiz-storefront/internal/domain"
)

// ExportColumns is the header row of the submissions export.
var ExportColumns = []string{
	"submission_id", "name", "mobile", "institute", "address", "paid",
	"payment_id", "score", "created_at", "ref_used", "coupon_used",
}

// WriteSubmissionsCSV writes one row per submission. Ungraded submissions get an empty score.
func WriteSubmissionsCSV(w io.Writer, subs []domain.Submission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, s := range subs {
		score := ""
		if s.Score != nil {
			score = strconv.Itoa(*s.Score)
		}
		row := []string{
			s.ID,
			s.Name,
			s.Mobile,
			s.Institute,
			s.Address,
			strconv.FormatBool(s.Paid()),
			s.PaymentID,
			score,
			s.CreatedAt.Format(time.RFC3339),
			s.Referral,
			s.CouponID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
