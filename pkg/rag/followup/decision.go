// Package followup decides how a message relates to the conversation so far and
// carries that decision out against the catalog and the session store.
package followup

import (
	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/store"
)

// Decision is the follow-up classification of one message
type Decision string

const (
	DecisionNewSearch        Decision = "NEW_SEARCH"
	DecisionColorQuery       Decision = "COLOR_QUERY"
	DecisionStockQuery       Decision = "STOCK_QUERY"
	DecisionNumericSelection Decision = "NUMERIC_SELECTION"
	DecisionInstallment      Decision = "INSTALLMENT_CONTINUATION"
	DecisionGeneral          Decision = "GENERAL"
)

// Outcome is a non-error result worth reporting to the shopper
type Outcome string

const (
	OutcomeNoEntityExtracted     Outcome = "NoEntityExtracted"
	OutcomeNoCandidatesFound     Outcome = "NoCandidatesFound"
	OutcomeAmbiguousSelection    Outcome = "AmbiguousSelection"
	OutcomeStaleContextReference Outcome = "StaleContextReference"
)

// IntentInstallment is the intent name that lets a bare number continue an installment flow
const IntentInstallment = "installment"

// Classification is the pure decision for a message
type Classification struct {
	Decision Decision
	// Bound is true when the answer is resolved against the stored product instead of a search
	Bound  bool
	Number Number // set for numeric selection and numeric installment replies
}

// Decide applies the follow-up rules in order; the first matching rule wins.
// normalized and entity must come from the same message.
func Decide(normalized string, entity extract.Entity, c *store.ConversationContext) Classification {
	if normalized == "" {
		return Classification{Decision: DecisionGeneral}
	}
	mentions := entity.MentionsProduct()
	number, numeric := ParseNumber(normalized)

	// 1. Explicit product plus color words: fresh color query, context ignored
	if mentions && extract.MentionsColor(normalized) {
		return Classification{Decision: DecisionColorQuery}
	}

	// 2. Pending options plus a bare number or price
	if c.HasPendingOptions() && numeric {
		return Classification{Decision: DecisionNumericSelection, Number: number}
	}

	if c.HasCurrentProduct() && !mentions {
		// 3. Color, stock or variant question about the stored product
		switch {
		case extract.MentionsColor(normalized):
			return Classification{Decision: DecisionColorQuery, Bound: true}
		case extract.MentionsStock(normalized) || extract.MentionsVariant(normalized):
			return Classification{Decision: DecisionStockQuery, Bound: true}
		}

		// 4. Installment vocabulary, or a bare number right after an installment turn
		if extract.MentionsInstallment(normalized) || (c.LastIntent == IntentInstallment && numeric) {
			return Classification{Decision: DecisionInstallment, Bound: true, Number: number}
		}
	}

	// 5. Everything else searches
	return Classification{Decision: DecisionNewSearch}
}
