package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_TechnicalSupport(t *testing.T) {
	// Tokens: {login, issue, i, cannot, access, my, account, password, reset, needed}.
	// Technical Support matches login, issue, reset, password, access (5);
	// Billing matches account (1); total 6.
	result := Classify("Login issue", "I cannot access my account, password reset needed")

	assert.Equal(t, DepartmentTechnical, result.Department)
	assert.InDelta(t, 0.7+0.3*(5.0/6.0), result.Confidence, 1e-9)
}

func TestClassify_NoMatches(t *testing.T) {
	result := Classify("xyz", "qpr")

	assert.Equal(t, DepartmentGeneral, result.Department)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassify_EmptyInput(t *testing.T) {
	result := Classify("", "")

	assert.Equal(t, DepartmentGeneral, result.Department)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassify_TieBreakDeclarationOrder(t *testing.T) {
	// "help" scores for General Support, "payment" for Billing. On a tie,
	// the earlier department in declaration order wins: Billing.
	result := Classify("help", "payment")

	assert.Equal(t, DepartmentBilling, result.Department)
	assert.InDelta(t, 0.7+0.3*(1.0/2.0), result.Confidence, 1e-9)
}

func TestClassify_SharedKeywordDilutesConfidence(t *testing.T) {
	// "plan" is in both the Billing and Sales lists; Billing wins the tie but
	// confidence is diluted by the total across departments.
	result := Classify("plan", "")

	assert.Equal(t, DepartmentBilling, result.Department)
	assert.InDelta(t, 0.85, result.Confidence, 1e-9)
}

func TestClassify_ConfidenceCap(t *testing.T) {
	// All matches in a single department would give 0.7+0.3 = 1.0; capped.
	result := Classify("billing payment refund", "")

	assert.Equal(t, DepartmentBilling, result.Department)
	assert.Equal(t, 0.99, result.Confidence)
}

func TestClassify_ExactTokenMatchOnly(t *testing.T) {
	// "passwords" tokenizes to the single token "passwords", which is not the
	// keyword "password". Substrings never match.
	result := Classify("passwords", "")

	assert.Equal(t, DepartmentGeneral, result.Department)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassify_RepetitionDoesNotRaiseScore(t *testing.T) {
	once := Classify("refund", "")
	repeated := Classify("refund refund refund", "REFUND! Refund?")

	assert.Equal(t, once.Department, repeated.Department)
	assert.Equal(t, once.Confidence, repeated.Confidence)
}

func TestClassify_CaseInsensitiveAndPunctuationSeparated(t *testing.T) {
	result := Classify("BILLING!!!", "charge;invoice,refund.")

	assert.Equal(t, DepartmentBilling, result.Department)
	assert.Equal(t, 0.99, result.Confidence)
}

func TestClassify_DeadPhraseKeywordNeverMatches(t *testing.T) {
	// "not working" is a two-word entry in the Technical Support list; the
	// tokenizer only produces single tokens, so it can never contribute.
	result := Classify("not working", "")

	assert.Equal(t, DepartmentGeneral, result.Department)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassify_Deterministic(t *testing.T) {
	subject := "Need a demo and pricing quote"
	description := "Interested in a trial upgrade, please contact sales"

	first := Classify(subject, description)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(subject, description))
	}
	assert.Equal(t, DepartmentSales, first.Department)
}

func TestDepartmentTable_Verbatim(t *testing.T) {
	counts := map[Department]int{
		DepartmentTechnical: 22,
		DepartmentBilling:   20,
		DepartmentSales:     20,
		DepartmentGeneral:   17,
	}
	for _, entry := range departmentTable {
		assert.Len(t, entry.keywords, counts[entry.department], "department %s", entry.department)
	}

	// Declaration order is the tie-break order.
	order := make([]Department, 0, len(departmentTable))
	for _, entry := range departmentTable {
		order = append(order, entry.department)
	}
	assert.Equal(t, []Department{
		DepartmentTechnical, DepartmentBilling, DepartmentSales, DepartmentGeneral,
	}, order)
}

func TestTokenize(t *testing.T) {
	tokens := tokenize(strings.ToLower("Can't login; error-code=42_a"))

	for _, expected := range []string{"can", "t", "login", "error", "code", "42_a"} {
		assert.Contains(t, tokens, expected)
	}
	assert.NotContains(t, tokens, "can't")
}
