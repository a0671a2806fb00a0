package retry

import (
	"fmt"

	"github.com/progressmethod/commitment-coach/internal/analyzer"
	"github.com/progressmethod/commitment-coach/internal/domain"
	"github.com/progressmethod/commitment-coach/internal/transport"
)

func choiceButton(c domain.UserChoice, label string) transport.Choice {
	return transport.Choice{ID: string(c), Label: label}
}

// guidancePrompt renders one of three guidance tiers keyed by how many
// retries the user has already spent.
func guidancePrompt(sess *domain.RetrySession, res analyzer.Result) transport.Prompt {
	var text string
	switch sess.AttemptCount {
	case 0:
		text = fmt.Sprintf(
			"Nice start! Your commitment scored %.0f/10. A small tweak could make it much easier to follow through on.\n\nHow about: %q",
			res.Score, res.Suggestion)
	case 1:
		text = fmt.Sprintf(
			"Scored %.0f/10. To push it higher, make it Specific (what exactly?), Measurable (how much?), and Time-bound (by when?).\n\n%s\n\nSuggestion: %q",
			res.Score, res.Feedback, res.Suggestion)
	default:
		text = fmt.Sprintf(
			"Scored %.0f/10. Compare: \"exercise more\" vs \"walk 20 minutes after lunch today\" - the second names the action, the amount, and the deadline.\n\nStrong option: %q",
			res.Score, res.Suggestion)
	}

	return transport.Prompt{
		Kind:      transport.KindGuidance,
		SessionID: sess.ID,
		Text:      text,
		Score:     res.Score,
		Choices: []transport.Choice{
			choiceButton(domain.ChoiceRetryManual, "Rewrite it myself"),
			choiceButton(domain.ChoiceUseSuggestion, "Use the suggestion"),
			choiceButton(domain.ChoiceKeepOriginal, "Keep my original"),
			choiceButton(domain.ChoiceCancel, "Cancel"),
		},
	}
}

// finalChoicePrompt is shown after the fourth sub-threshold analysis.
func finalChoicePrompt(sess *domain.RetrySession, res analyzer.Result) transport.Prompt {
	return transport.Prompt{
		Kind:      transport.KindFinalChoice,
		SessionID: sess.ID,
		Text: fmt.Sprintf(
			"You've put real effort into this - that matters more than the score. It currently sits at %.0f/10. Save it as is, or take the suggestion %q?",
			res.Score, res.Suggestion),
		Score: res.Score,
		Choices: []transport.Choice{
			choiceButton(domain.ChoiceSaveFinal, "Save as is"),
			choiceButton(domain.ChoiceUseSuggestion, "Take the suggestion"),
			choiceButton(domain.ChoiceCancel, "Cancel"),
		},
	}
}

func awaitingTextPrompt(sess *domain.RetrySession) transport.Prompt {
	return transport.Prompt{
		Kind:      transport.KindAwaitingText,
		SessionID: sess.ID,
		Text:      "Type your revised commitment and I'll score it again.",
	}
}

// savedPrompt confirms a persisted commitment. degraded notes that scoring
// was unavailable and a default score was recorded.
func savedPrompt(sess *domain.RetrySession, text string, score float64, degraded bool) transport.Prompt {
	msg := fmt.Sprintf("Saved! %q is on your list at %.0f/10. Go get it done.", text, score)
	if degraded {
		msg = fmt.Sprintf("Saved! %q is on your list. Scoring was unavailable, so it's recorded at a default %.0f/10.", text, score)
	}
	return transport.Prompt{
		Kind:      transport.KindSaved,
		SessionID: sess.ID,
		Text:      msg,
		Score:     score,
	}
}

func cancelledPrompt(sess *domain.RetrySession) transport.Prompt {
	return transport.Prompt{
		Kind:      transport.KindCancelled,
		SessionID: sess.ID,
		Text:      "No problem - nothing was saved. Come back when you're ready.",
	}
}
