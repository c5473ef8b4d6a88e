package triage

// Department is a ticket destination from the fixed closed set.
type Department string

// Departments in declaration order. Ties on score resolve to the first
// department in this order.
const (
	DepartmentTechnical Department = "Technical Support"
	DepartmentBilling   Department = "Billing"
	DepartmentSales     Department = "Sales"
	DepartmentGeneral   Department = "General Support"
)

type departmentKeywords struct {
	department Department
	keywords   []string
}

// departmentTable is the authoritative keyword table, reproduced verbatim
// for compatibility with existing ticket routing. The "not working" entry is
// a two-word phrase that the single-token matcher can never hit; it is kept
// as-is rather than silently changing routing behavior.
var departmentTable = []departmentKeywords{
	{DepartmentTechnical, []string{
		"login", "bug", "error", "issue", "crash", "system", "api", "fail",
		"problem", "reset", "password", "technical", "support", "access",
		"unable", "not working", "glitch", "slow", "performance", "timeout",
		"server", "database",
	}},
	{DepartmentBilling, []string{
		"billing", "payment", "charge", "invoice", "refund", "credit", "debit",
		"card", "subscription", "plan", "renew", "cancel", "overcharge",
		"price", "cost", "fee", "transaction", "receipt", "account", "statement",
	}},
	{DepartmentSales, []string{
		"demo", "sales", "pricing", "quote", "purchase", "buy", "trial",
		"upgrade", "offer", "discount", "order", "product", "feature",
		"request", "information", "plan", "package", "deal", "contact",
		"salesperson",
	}},
	{DepartmentGeneral, []string{
		"question", "help", "general", "info", "information", "how", "what",
		"where", "when", "why", "assist", "support", "customer", "service",
		"feedback", "suggestion", "other",
	}},
}
