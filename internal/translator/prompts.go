package translator

import "fmt"

const systemPrompt = "You are a professional translator specializing in customer support queries."

// customerSupportPrompt is used when the target language is English; it keeps
// the customer-service register intact.
const customerSupportPrompt = `You are a customer support translator. Translate the following customer query from %s to English.
Focus on maintaining the meaning and tone, especially for customer service contexts.
Provide only the translation.

Customer Query: %s

English Translation:`

// genericPrompt handles arbitrary target languages.
const genericPrompt = `You are a professional translator. Translate the following text from %s to %s.
Provide only the translation without any explanations, notes, or additional text.

Text: %s

Translation:`

// formalPrompt and casualPrompt are alternate registers exposed for callers
// that want a specific tone when translating to English.
const formalPrompt = `Translate the following text from %s to English using formal language.
Maintain professionalism and accuracy. Provide only the translation.

Text: %s

Formal English Translation:`

const casualPrompt = `Translate the following text from %s to English using a natural, conversational tone.
Keep the informal style but ensure accuracy. Provide only the translation.

Text: %s

Conversational English Translation:`

const accuracyPrompt = `Evaluate the following translation for accuracy on a scale of 1-10.

Original: %s
Translation: %s

Consider:
- Meaning preservation
- Grammatical correctness
- Cultural appropriateness
- Clarity

Score (1-10):`

const fluencyPrompt = `Evaluate the following translation for fluency and naturalness on a scale of 1-10.

Original: %s
Translation: %s

Consider:
- Natural English flow
- Idiomatic expressions
- Readability
- Style consistency

Score (1-10):`

// Register selects the prompt tone for English-target translations.
type Register string

const (
	RegisterSupport Register = "customer_support"
	RegisterFormal  Register = "formal"
	RegisterCasual  Register = "casual"
)

// buildPrompt renders the user prompt for a translation request.
func buildPrompt(register Register, sourceName, targetName, text string) string {
	if targetName == "English" {
		switch register {
		case RegisterFormal:
			return fmt.Sprintf(formalPrompt, sourceName, text)
		case RegisterCasual:
			return fmt.Sprintf(casualPrompt, sourceName, text)
		default:
			return fmt.Sprintf(customerSupportPrompt, sourceName, text)
		}
	}
	return fmt.Sprintf(genericPrompt, sourceName, targetName, text)
}
