// Package prompt owns the triage classification protocol shared by all
// LLM backends: the prompt text sent to the model and the parsing of the
// classification payload it returns. Backends differ only in transport
// envelope.
package prompt

import (
	"fmt"
	"strings"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/utils"
)

const promptFormat = `You are an email triage assistant focused on ACTIONABILITY. Your job is to surface emails that require the user to DO something, not just emails that sound important.

Classify each email as:
- ACTIONABLE: User must take a specific action (reply, pay, schedule, sign, submit, confirm, complete a form, make a decision). Missing this email would cause a real problem.
- INFORMATIONAL: Worth a quick glance but no action required (shipping confirmations, purchase receipts with no issues, account statements, successful payment confirmations).
- SKIP: Do not surface. This includes marketing, promotional offers, political campaigns, fundraising requests, newsletters, social media notifications, automated alerts, and anything where the user is not personally required to do something.

IMPORTANT RULES:
- Just because an email contains words like "review", "important", or "action" does NOT make it actionable
- Receipts and order confirmations are INFORMATIONAL unless there is a problem requiring action
- Shipping/delivery notifications are INFORMATIONAL (no action needed to receive a package)
- Political emails and fundraising are ALWAYS SKIP regardless of urgency language
- Marketing emails are ALWAYS SKIP even if they mention "limited time" or "expiring"
- If unsure, ask: "Would missing this email cause the user to miss a deadline, lose money, or fail to fulfill an obligation?"

For each ACTIONABLE or INFORMATIONAL email, provide:
1. Category (ACTIONABLE or INFORMATIONAL)
2. One-line summary (under 100 chars) describing what the email is about
3. Specific action needed (or "No action needed" if just informational)
4. Three lines of contextual information (each under 80 chars) that highlight the most important details

Classify these emails:

%s

Respond in JSON format with this exact structure:
{
  "classifications": [
    {
      "email_index": 0,
      "category": "ACTIONABLE",
      "summary": "Medical appointment on Dec 22",
      "action": "Print and fill out questionnaire",
      "context": [
        "Appointment scheduled for 2:00 PM",
        "Bring insurance card and ID",
        "Arrive 15 minutes early for check-in"
      ]
    }
  ]
}

Only include emails that are ACTIONABLE or INFORMATIONAL in your response. Skip all others.`

// Builder renders the triage prompt for a batch of envelopes
type Builder struct {
	textProcessor  *utils.TextProcessor
	maxPreviewSize int
}

// NewBuilder creates a new prompt builder. maxPreviewSize bounds the
// preview text included per email; zero disables truncation.
func NewBuilder(textProcessor *utils.TextProcessor, maxPreviewSize int) *Builder {
	return &Builder{
		textProcessor:  textProcessor,
		maxPreviewSize: maxPreviewSize,
	}
}

// Build constructs the single classification prompt enumerating each
// envelope by its batch index
func (b *Builder) Build(emails []core.Email) string {
	blocks := make([]string, len(emails))
	for i := range emails {
		preview := b.textProcessor.ProcessText(emails[i].Preview, b.maxPreviewSize)
		blocks[i] = fmt.Sprintf("Email %d:\nFrom: %s\nSubject: %s\nPreview: %s",
			i, emails[i].SenderEmail(), emails[i].Subject, preview)
	}
	return fmt.Sprintf(promptFormat, strings.Join(blocks, "\n\n"))
}
