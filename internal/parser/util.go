package parser

// Pattern fragments shared by the rule sets. Every rule pattern is compiled
// case-insensitively and evaluated on normalized, single-spaced text.
const (
	// Jan, Sept., October ...
	monthName = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?`

	// 01/10/2025, 1-10-25, 01.10.2025, 01 Oct 2025, 01-Oct-2025,
	// Oct 1, 2025 or October 2025.
	dateForms = `\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}` +
		`|\d{1,2}[\s\-]` + monthName + `[\s\-,]*\d{2,4}` +
		`|` + monthName + `\s+\d{1,2},?\s+\d{2,4}` +
		`|` + monthName + `\s+\d{4}`

	// One capture group: a single date.
	dateToken = `(` + dateForms + `)`

	// One capture group: the start of a period, which may leave the year to
	// the end date ("01 Oct - 31 Oct 2025").
	periodStart = `(` + dateForms + `|\d{1,2}[\s\-]` + monthName + `)`

	// Separator between the two ends of a billing period.
	rangeSep = `\s*(?:-|–|—|to)\s*`

	// Two capture groups: start and end of a period.
	dateRange = periodStart + rangeSep + dateToken

	// One capture group: an amount kept verbatim with its currency marker
	// and digit grouping, e.g. ₹7,890.25, Rs. 1,00,000 or $1,234.
	amountToken = `((?:[$₹£€]|Rs\.?|INR)?\s?\d+(?:,\d+)*(?:\.\d{1,2})?)`

	// Separator between a label and its value.
	labelSep = `[:\s]*`

	// One capture group: last four digits after three masked groups of four.
	maskedLast4 = `X{4}\s*X{4}\s*X{4}\s*(\d{4})`

	// Terminates the due-date run so it does not swallow the next label.
	dueDateStop = `Total|New|Amount|Balance`

	// Terminates a card variant at the next label or card number mask.
	variantStop = `\b(?:Card|Cardholder|Member|Ending|Number|No|Account|Statement|Billing|` +
		`Payment|Total|New|Amount|Minimum|Credit|Available|Due|Opening|Closing|Bank|Name|Type|Limit)\b` +
		`|X{4}|\*{4}`
)
