package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// MemberSortFields contains allowed sort fields for members
var MemberSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"member_number": true,
	"full_name":     true,
	"status":        true,
	"joined_at":     true,
}

// SavingsTransactionSortFields contains allowed sort fields for savings transactions
var SavingsTransactionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"posted_at":  true,
	"type":       true,
	"amount":     true,
}

// PercentageSettingSortFields contains allowed sort fields for profit-sharing settings
var PercentageSettingSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"fiscal_year": true,
	"is_active":   true,
}

// DistributionSortFields contains allowed sort fields for profit distributions
var DistributionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"fiscal_year":      true,
	"status":           true,
	"total_shu_amount": true,
}

// ResidentSortFields contains allowed sort fields for residents
var ResidentSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"house_number":  true,
	"head_of_house": true,
	"status":        true,
	"moved_in_at":   true,
}

// FeePaymentSortFields contains allowed sort fields for fee payments
var FeePaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"period_year":  true,
	"period_month": true,
	"status":       true,
	"amount":       true,
	"due_date":     true,
	"payment_date": true,
}

// FeeSortFields contains allowed sort fields for fee types
var FeeSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"amount":     true,
	"is_active":  true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"full_name":     true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}
