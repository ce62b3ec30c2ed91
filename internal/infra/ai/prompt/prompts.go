package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/debtguard/internal/domain/collector"
)

// citationRule is appended to every analysis prompt so returned text
// carries machine-extractable section references.
const citationRule = `When you reference a provision of the Uniform Commercial Code, cite it inline as a bracketed token of the form [UCC § 3-104] (article number, dash, section number). Use only that bracket format for UCC citations.`

// SystemPrompt frames every request. Kept short; per-action detail
// lives in the user prompts.
func SystemPrompt() string {
	return `You are a consumer-debt defense assistant. You explain negotiable instruments, credit disputes, vehicle financing contracts and debt-collection law in plain language for a non-lawyer. You are not the user's attorney and you note that your output is information, not legal advice. Respond in plain text or light markdown, never JSON.`
}

// InstrumentAnalysis asks for a review of an uploaded negotiable instrument.
func InstrumentAnalysis() string {
	return `Analyze the attached financial document as a potential negotiable instrument. Identify the instrument type (note, check, bill of exchange), whether it satisfies the requirements of negotiability, any endorsements present and their effect on transfer, and any defects or irregularities visible. ` + citationRule
}

// CreditAnalysis asks for a review of a credit-report dispute.
// details is optional free text from the user; doc may be absent.
func CreditAnalysis(details string, hasDocument bool) string {
	var b strings.Builder
	b.WriteString("Review this credit dispute. Identify inaccurate, unverifiable or obsolete items, the consumer's dispute rights, and the reinvestigation duties of the furnisher and the bureaus. ")
	if hasDocument {
		b.WriteString("The consumer's credit report page is attached. ")
	}
	if strings.TrimSpace(details) != "" {
		fmt.Fprintf(&b, "Consumer's description of the problem: %s ", details)
	}
	b.WriteString(citationRule)
	return b.String()
}

// VehicleAnalysis asks for a review of a vehicle financing contract.
func VehicleAnalysis(details string, hasDocument bool) string {
	var b strings.Builder
	b.WriteString("Review this vehicle financing contract. Identify the finance charge and APR disclosures, any security interest granted in the vehicle, repossession and deficiency terms, and clauses that are unusual or unfavorable to the buyer. ")
	if hasDocument {
		b.WriteString("The contract is attached. ")
	}
	if strings.TrimSpace(details) != "" {
		fmt.Fprintf(&b, "Buyer's description of the situation: %s ", details)
	}
	b.WriteString(citationRule)
	return b.String()
}

// CreditLetter drafts a dispute letter from a prior analysis.
func CreditLetter(analysis string) string {
	return fmt.Sprintf(`Draft a formal credit dispute letter the consumer can send to the credit bureau. Base it on the analysis below. Use a professional tone, demand reinvestigation and deletion of unverifiable items, and leave placeholders like [YOUR NAME] and [DATE] for personal details.

Analysis:
%s`, analysis)
}

// VehicleLetter drafts a demand letter from a vehicle contract analysis.
func VehicleLetter(analysis string) string {
	return fmt.Sprintf(`Draft a formal letter to the finance company raising the contract issues found in the analysis below. Request written clarification of each disputed term, preserve the buyer's rights, and leave placeholders like [YOUR NAME] and [DATE] for personal details.

Analysis:
%s`, analysis)
}

// ViolationSuggestion asks, for one logged collector interaction,
// which collection-practice rules it may have violated.
func ViolationSuggestion(d collector.Draft) string {
	return fmt.Sprintf(`A consumer logged this debt-collector interaction. List the debt-collection rules it may violate (harassment, false representation, contact-time limits, validation duties), each with a short plain-language reason. If nothing appears unlawful, say so.

Date: %s
Collector: %s
Company: %s
What happened: %s

%s`, d.Date, d.Collector, d.Company, d.Description, citationRule)
}

// CollectorLetter drafts a cease-and-desist / validation letter from the
// accumulated log entries.
func CollectorLetter(entries []collector.LogEntry) string {
	var b strings.Builder
	b.WriteString("Draft a formal letter to a debt collection company demanding validation of the alleged debt and citing the logged interactions below as the factual record. Professional tone, placeholders like [YOUR NAME] and [DATE] for personal details.\n\nLogged interactions:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s, %s (%s): %s\n", e.Date, e.Collector, e.Company, e.Description)
		if e.Suggestion != "" {
			fmt.Fprintf(&b, "  Possible violations noted: %s\n", e.Suggestion)
		}
	}
	return b.String()
}

// CitationExplanation asks for a plain-language explanation of one cited
// UCC section.
func CitationExplanation(article, section string) string {
	return fmt.Sprintf("Explain UCC Article %s, Section %s-%s in two or three plain-language sentences for a non-lawyer. Focus on what it means for a consumer dealing with debt collection or financing. Do not include bracketed citations in the answer.", article, article, section)
}
