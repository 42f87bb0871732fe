package parser

import "github.com/insightdelivered/card-statement-parser/internal/models"

// dueDateRules is shared by every rule set: a due-date label followed by a
// run of date-like characters, cut before the next amount label.
func dueDateRules() []Rule {
	return []Rule{
		{
			Pattern:     `Payment\s*Due\s*Date` + labelSep + `([0-9A-Za-z\s/]+)`,
			Until:       dueDateStop,
			RequireStop: true,
		},
	}
}

func statementPeriodRules() []Rule {
	return []Rule{
		{Pattern: `Statement\s*Period` + labelSep + dateRange, Join: []int{1, 2}},
		{Pattern: `Billing\s*(?:Cycle|Period)` + labelSep + dateRange, Join: []int{1, 2}},
	}
}

func maskedLast4Rules() []Rule {
	return []Rule{{Pattern: maskedLast4}}
}

// DefaultRuleSets returns the built-in issuer rule sets. Issuers in the
// detector catalog without an entry here use FallbackRuleSet.
func DefaultRuleSets() []RuleSetDef {
	return []RuleSetDef{
		{
			Issuer: models.IssuerAmex,
			Fields: map[models.Field][]Rule{
				models.FieldCardVariant: {
					{Pattern: `Card\s*(?:Type|Variant)` + labelSep + `([A-Za-z][A-Za-z\s]*)`, Until: variantStop},
					{Pattern: `Card[:\s]+([A-Za-z][A-Za-z\s]*)`, Until: variantStop},
				},
				models.FieldLast4: {
					{Pattern: `\*{4}\s*\*{4}\s*\*{4}\s*(\d{4})`},
					{Pattern: `Card\s*Ending[:\s*]+(\d{4})`},
				},
				models.FieldBillingPeriod: {
					{Pattern: `(?:Billing|Statement)\s*Period` + labelSep + dateRange, Join: []int{1, 2}},
				},
				models.FieldDueDate: dueDateRules(),
				models.FieldTotalDue: {
					{Pattern: `Total\s*Due` + labelSep + amountToken},
					{Pattern: `New\s*Balance` + labelSep + amountToken},
				},
			},
		},
		{
			Issuer: models.IssuerAxis,
			Fields: map[models.Field][]Rule{
				models.FieldCardVariant: {
					{Pattern: `Card\s*Type` + labelSep + `([A-Za-z0-9][A-Za-z0-9\s]*)`, Until: variantStop},
				},
				models.FieldLast4:         maskedLast4Rules(),
				models.FieldBillingPeriod: statementPeriodRules(),
				models.FieldDueDate:       dueDateRules(),
				models.FieldTotalDue: {
					{Pattern: `Total\s*Amount\s*Due` + labelSep + amountToken},
					{Pattern: `Amount\s*Due` + labelSep + amountToken},
				},
			},
		},
		{
			// HDFC statements carry no card variant.
			Issuer: models.IssuerHDFC,
			Fields: map[models.Field][]Rule{
				models.FieldLast4: {
					{Pattern: `Card\s*No[:.\s]*[0-9X\s]+(\d{4})`},
					{Pattern: maskedLast4},
				},
				models.FieldBillingPeriod: {
					{Pattern: `Billing\s*(Cycle|Period)` + labelSep + dateRange, Join: []int{2, 3}},
					{Pattern: `Statement\s*Period` + labelSep + dateRange, Join: []int{1, 2}},
					{Pattern: `Statement\s*Date` + labelSep + dateToken},
				},
				models.FieldDueDate: dueDateRules(),
				models.FieldTotalDue: {
					{Pattern: `Total\s*(Amount\s*)?Dues?` + labelSep + amountToken, Groups: []int{2}},
				},
			},
		},
		{
			Issuer: models.IssuerICICI,
			Fields: map[models.Field][]Rule{
				models.FieldCardVariant: {
					{Pattern: `Card\s*Type` + labelSep + `([A-Za-z][A-Za-z\s]*)`, Until: variantStop},
				},
				models.FieldLast4:         maskedLast4Rules(),
				models.FieldBillingPeriod: statementPeriodRules(),
				models.FieldDueDate:       dueDateRules(),
				models.FieldTotalDue: {
					{Pattern: `Total\s*Amount\s*Due` + labelSep + amountToken},
					{Pattern: `New\s*Balance` + labelSep + amountToken},
				},
			},
		},
		{
			Issuer: models.IssuerSBI,
			Fields: map[models.Field][]Rule{
				models.FieldCardVariant: {
					{Pattern: `Card\s*Type` + labelSep + `([A-Za-z][A-Za-z\s]*)`, Until: variantStop},
				},
				models.FieldLast4:         maskedLast4Rules(),
				models.FieldBillingPeriod: statementPeriodRules(),
				models.FieldDueDate:       dueDateRules(),
				models.FieldTotalDue: {
					{Pattern: `Total\s*Amount\s*Due` + labelSep + amountToken},
					{Pattern: `New\s*Balance` + labelSep + amountToken},
				},
			},
		},
		{
			Issuer: models.IssuerChase,
			Fields: map[models.Field][]Rule{
				models.FieldLast4: {
					{Pattern: `(?:Account\s*Number|Card\s*No\.?)[:\s\-]*X{0,4}\s*X{0,4}\s*X{0,4}\s*(\d{4})`},
				},
				models.FieldBillingPeriod: {
					{Pattern: `(?:Opening/Closing\s*Date|Billing\s*Period)` + labelSep + dateRange, Join: []int{1, 2}},
				},
				models.FieldDueDate: dueDateRules(),
				models.FieldTotalDue: {
					{Pattern: `New\s*Balance` + labelSep + amountToken},
					{Pattern: `Total\s*Due` + labelSep + amountToken},
					{Pattern: `Amount\s*Payable` + labelSep + amountToken},
				},
			},
		},
	}
}

// FallbackRuleSet returns the generic rules used for unknown issuers and
// issuers without a dedicated set. It never extracts a card variant.
func FallbackRuleSet() RuleSetDef {
	return RuleSetDef{
		Issuer: models.IssuerUnknown,
		Fields: map[models.Field][]Rule{
			models.FieldLast4: {
				{Pattern: maskedLast4},
				{Pattern: `Card\s*Ending[:\s*]+(\d{4})`},
			},
			models.FieldBillingPeriod: {
				{Pattern: `(?:Billing|Statement)\s*(Period|Cycle)` + labelSep + dateRange, Join: []int{2, 3}},
			},
			models.FieldDueDate: dueDateRules(),
			models.FieldTotalDue: {
				{Pattern: `Total\s*(Amount)?\s*Due` + labelSep + amountToken, Groups: []int{2}},
				{Pattern: `New\s*Balance` + labelSep + amountToken},
			},
		},
	}
}
