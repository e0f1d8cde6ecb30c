package classification

// DefaultPaymentPatterns returns the payment status vocabulary used by
// organizers' sheets. Unpaid indicators outrank paid ones so that text like
// "unpaid" or "not paid" never reads as paid.
func DefaultPaymentPatterns() []Pattern {
	return []Pattern{
		// Unpaid indicators
		{Name: "Unpaid", State: StateUnpaid, Regex: `unpaid`, Priority: 100},
		{Name: "Not Paid", State: StateUnpaid, Regex: `not\s*paid`, Priority: 100},
		{Name: "Not Receiving", State: StateUnpaid, Regex: `not receiving`, Priority: 100},
		{Name: "No Answer", State: StateUnpaid, Regex: `no answer`, Priority: 100},
		{Name: "Pending", State: StateUnpaid, Regex: `pending`, Priority: 90},
		{Name: "Due", State: StateUnpaid, Regex: `due|outstanding`, Priority: 90},
		{Name: "Postponed", State: StateUnpaid, Regex: `postponed`, Priority: 90},
		{Name: "No", State: StateUnpaid, Regex: `\b(no|false|0)\b`, Priority: 80},

		// Paid indicators
		{Name: "Paid", State: StatePaid, Regex: `paid`, Priority: 50},
		{Name: "Yes", State: StatePaid, Regex: `\b(yes|y|true|1)\b`, Priority: 50},
		{Name: "Done", State: StatePaid, Regex: `done|complete|success|confirm`, Priority: 40},
		{Name: "Received", State: StatePaid, Regex: `received|recieved`, Priority: 40},
		{Name: "Cleared", State: StatePaid, Regex: `cleared|settled`, Priority: 40},
	}
}
