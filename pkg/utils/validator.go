package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RFC: 3 letters for moral persons or 4 for physical persons, birth or
// incorporation date, 3-character homoclave.
var rfcRegex = regexp.MustCompile(`^[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}$`)

// ValidateRFC validates a Mexican federal taxpayer registry code
func ValidateRFC(rfc string) error {
	rfc = strings.ToUpper(strings.TrimSpace(rfc))
	if !rfcRegex.MatchString(rfc) {
		return fmt.Errorf("invalid RFC format: %s", rfc)
	}
	return nil
}

// ValidateFolioFiscal validates a fiscal folio (UUID) from a stamped invoice
func ValidateFolioFiscal(folio string) error {
	if _, err := uuid.Parse(folio); err != nil {
		return fmt.Errorf("invalid fiscal folio: %s", folio)
	}
	return nil
}

// ValidateMonto validates an invoice amount
func ValidateMonto(monto decimal.Decimal) error {
	if monto.Sign() <= 0 {
		return fmt.Errorf("amount must be positive: %s", monto)
	}
	return nil
}

// SanitizeString removes control characters from free-text fields
func SanitizeString(s string) string {
	sanitized := regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
	return sanitized
}
