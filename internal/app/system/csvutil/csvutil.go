// internal/app/system/csvutil/csvutil.go
//
// Package csvutil builds the CSV exports for leads and applications and
// enforces the synchronous-download size limit.
package csvutil

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
)

// DownloadLimit is the maximum number of records a synchronous download
// may contain. Larger exports must go through the async task path, which
// uploads to object storage instead.
const DownloadLimit = 200

// CheckDownloadSize returns a BusinessRuleError when count exceeds the
// synchronous download limit. Oversized downloads fail loudly rather than
// truncating silently.
func CheckDownloadSize(count int64) error {
	if count > DownloadLimit {
		return apperrors.BusinessRule(
			"export of %d records exceeds the %d-record download limit; use the async export", count, DownloadLimit)
	}
	return nil
}

// Write renders header plus rows as CSV bytes.
func Write(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
