package prompts

import (
	"fmt"
	"strings"

	"github.com/teemow/inboxagent/internal/campaign"
	"github.com/teemow/inboxagent/internal/llm"
)

// Spec describes one kind of model call.
type Spec struct {
	Instructions string
	JSON         string
	Tier         llm.Tier
	TopK         int
}

// Persona is who the generated replies are written as.
type Persona struct {
	OwnerName string
	Domains   []string
}

// DefaultPersona signs replies for the campaign owner.
var DefaultPersona = Persona{
	OwnerName: campaign.DefaultSender.OwnerName,
	Domains:   []string{"hamletmail.com", "hamlethub.com"},
}

const extractRequest = "Extract data from the context and fill in the blanks of the provided object. " +
	"Escape special characters in your output. Give no explanations. " +
	"Leave a field blank if you cannot provide a value. Follow the instructions carefully."

// ReplyJSON is the contract of every generated reply.
const ReplyJSON = `{ "subject": "Subject line", "message": "Generated message" }`

// ReplyInstructions is the shared guidance for generated replies.
func (p Persona) ReplyInstructions() string {
	return "Act as a professional email writer. Write a clear and concise reply to the question or concern in the email. " +
		"Match the purpose and tone of the conversation and format the reply with a greeting, a body and a closing. " +
		"Provide a strong subject line and address the recipient by name where it is known. " +
		fmt.Sprintf("Your name is %s and you write from %s. ", p.OwnerName, strings.Join(p.Domains, " or ")) +
		fmt.Sprintf("If earlier messages are quoted, use them to follow the whole conversation between %s and the sender. ", p.OwnerName) +
		"Do not add signature details at the end, only your name."
}

// Reply builds the system prompt for a reply category.
func (p Persona) Reply(s Spec, explanation string) llm.Prompt {
	return llm.Prompt{
		System: fmt.Sprintf("%s\nYour previous reasoning: %s\nINSTRUCTIONS: %s\nJSON: %s",
			s.Instructions, explanation, p.ReplyInstructions(), ReplyJSON),
	}
}

// ThankYou builds the prompt for the note thanking a nominator. The user part
// is the email text.
func (p Persona) ThankYou(emailText string) llm.Prompt {
	return llm.Prompt{
		System: fmt.Sprintf("INSTRUCTIONS: %s\n%s\nJSON: %s", thankYouInstructions, p.ReplyInstructions(), ReplyJSON),
		User:   emailText,
	}
}

const thankYouInstructions = "Write a short thank you note to a sender who nominated one or more businesses. " +
	"Escape newline characters. Confirm any other information they gave and answer any questions or concerns they raised."

const jsonOnly = " Output ONLY JSON and escape newline characters."

// Reply specs per category.
var (
	Questions = Spec{
		Instructions: "Thank the sender for the question and answer it clearly and concisely. Be direct and polite." + jsonOnly,
		JSON:         ReplyJSON,
		Tier:         llm.TierGPT4,
		TopK:         1,
	}
	Unsubscribe = Spec{
		Instructions: "The sender asked to stop receiving campaign emails. Respect the request and confirm they will be taken off the list." + jsonOnly,
		JSON:         ReplyJSON,
		Tier:         llm.TierGPT4,
		TopK:         1,
	}
	Acknowledgment = Spec{
		Instructions: "Thank the sender for the acknowledgment. Keep it short and answer any questions they asked." + jsonOnly,
		JSON:         ReplyJSON,
		Tier:         llm.TierGPT4,
		TopK:         1,
	}
	Confirmation = Spec{
		Instructions: "Thank the sender for confirming the information and follow up on any questions they asked." + jsonOnly,
		JSON:         ReplyJSON,
		Tier:         llm.TierGPT4,
		TopK:         1,
	}
	Decline = Spec{
		Instructions: "The sender declined to take part in the campaign. Respect the decision, do not push further, and invite them to reach out if they change their mind." + jsonOnly,
		JSON:         ReplyJSON,
		Tier:         llm.TierGPT4,
		TopK:         1,
	}
)

// Category is a classification label with its description.
type Category struct {
	Name        string
	Description string
}

// Taxonomy lists the categories the classifier chooses from, in priority order.
var Taxonomy = []Category{
	{"Answers", "Replies that answer the campaign questions: " + strings.Join(campaign.Questions, " ") +
		" These answers are the core data the campaign gathers. Answers takes priority over every other category when it applies."},
	{"Nominations", "The sender nominates, tags or recommends one or more other businesses to be featured in the campaign. " +
		"Nominations takes priority over every category except Answers."},
	{"Questions", "The sender asks a direct question, for example about the campaign or the interview process, and expects an answer."},
	{"Unsubscribe request", "The sender explicitly asks to stop receiving emails or to be removed from the campaign. " +
		"The mere presence of an unsubscribe link, or of a listUnsubscribe field in the email, does not make an email an unsubscribe request."},
	{"Acknowledgment", "The sender thanks us or acknowledges something we did, such as featuring their business or receiving an earlier email."},
	{"Confirmation", "The sender confirms information we asked for, such as a logo or agreeing to an interview."},
	{"Decline to Participate", "The sender says they do not want to take part in the campaign, for whatever reason."},
	{"Spam or Promotion", "Unsolicited sales pitches, offers or advertisements unrelated to the Why Small Businesses Matter campaign."},
}

// ClassifyJSON is the classifier's contract.
const ClassifyJSON = `{ "category": "Appropriate category", "explanation": "Your reasoning" }`

// Classify is the classification spec.
var Classify = Spec{
	Instructions: classifyInstructions(),
	JSON:         ClassifyJSON,
	Tier:         llm.TierGPT4,
	TopK:         2,
}

func classifyInstructions() string {
	var b strings.Builder
	b.WriteString("Categorize the email using exactly one of these categories:\n")
	for _, c := range Taxonomy {
		fmt.Fprintf(&b, "- %q: %s\n", c.Name, c.Description)
	}
	b.WriteString("\nYou cannot combine categories. Output only the JSON below with the category and your reasoning.")
	return b.String()
}

// ClassifyPrompt builds the classification system prompt.
func ClassifyPrompt() llm.Prompt {
	return llm.Prompt{System: fmt.Sprintf("%s\nJSON: %s", Classify.Instructions, Classify.JSON)}
}

// BusinessDetails is the business details extraction spec.
var BusinessDetails = Spec{
	Instructions: "Parse the business details from the email body. Field notes: " +
		"senderName is the full name of the sender; " +
		"senderGender is 'Male', 'Female' or 'Unknown'; " +
		"senderTitle is a role such as Owner, Founder, Manager or CEO; " +
		"businessName drops LLC, Inc and similar suffixes; " +
		"town is formatted as 'TOWN, STATE' and left blank if unsure; " +
		"phoneNumber is formatted as (000)000-0000; " +
		"website and every social link is a full URL, so '@example' on Instagram becomes 'https://www.instagram.com/example'.",
	JSON: `{ "senderName": "", "senderGender": "", "senderTitle": "", "businessName": "", "address": "", "town": "", ` +
		`"phoneNumber": "", "website": "", "facebook": "", "twitter": "", "instagram": "", "linkedin": "" }`,
	Tier: llm.TierGPT4,
	TopK: 3,
}

// NominatorDetails is the reduced details extraction used for nomination emails.
var NominatorDetails = Spec{
	Instructions: "Parse the sender details from the email body. Field notes: " +
		"senderName is the full name of the sender; " +
		"senderGender is 'Male', 'Female' or 'Unknown'; " +
		"businessName drops LLC, Inc and similar suffixes; " +
		"town is formatted as 'TOWN, CT' and left blank if unsure.",
	JSON: `{ "senderName": "", "senderGender": "", "businessName": "", "town": "" }`,
	Tier: llm.TierGPT4,
	TopK: 3,
}

// DetailsPrompt builds an extraction prompt for business details.
func DetailsPrompt(s Spec) llm.Prompt {
	return llm.Prompt{System: fmt.Sprintf("REQUEST: %s\nINSTRUCTIONS: %s\nJSON: %s", extractRequest, s.Instructions, s.JSON)}
}

const nominationsJSON = `{ "0": { "nominated_business_name": "", "nominated_business_location": "", ` +
	`"nominated_business_person": "", "nominated_business_link": "", "email_template": "" } }`

// Nominations is the nomination extraction spec.
var Nominations = Spec{
	Instructions: "Find the businesses that are nominated, tagged or recommended to be featured next. " +
		"They usually appear at the beginning or the end of the email body. Add one object per nominated business, keyed 0, 1, 2 and so on. " +
		"The responding business cannot nominate itself. " +
		"nominated_business_location is usually the location of the sender unless stated otherwise. " +
		"nominated_business_link is the website, or a social media profile, of the nominated business if one is known. " +
		"Leave email_template empty. If no business is nominated, output an empty JSON object.",
	JSON: nominationsJSON,
	Tier: llm.TierGPT4,
	TopK: 1,
}

// NominationsPrompt builds the nomination extraction prompt. explanation is
// the classifier's reasoning and may be empty.
func NominationsPrompt(explanation string) llm.Prompt {
	if explanation == "" {
		return llm.Prompt{System: fmt.Sprintf("REQUEST: %s\nINSTRUCTIONS: %s\nJSON: %s", extractRequest, Nominations.Instructions, Nominations.JSON)}
	}
	return llm.Prompt{System: fmt.Sprintf("INSTRUCTIONS: %s\nYour previous reasoning: %s\nJSON: %s", Nominations.Instructions, explanation, Nominations.JSON)}
}

// QAJSON is the per-question contract.
const QAJSON = `{ "q": "", "a": "" }`

// QA is the per-question extraction spec.
var QA = Spec{
	JSON: QAJSON,
	Tier: llm.TierGPT4,
	TopK: 1,
}

// QAPrompt builds the extraction prompt for one interview question.
func QAPrompt(question string) llm.Prompt {
	instructions := fmt.Sprintf("Use comprehension, inference and context to decide which information answers the question '%s'. ", question) +
		fmt.Sprintf("If nothing answers it, return '%s'. Do not make up data and drop nonsense text. ", campaign.NoAnswer) +
		"The answer is published in a QA article: work out how the sender lays out the answers and extract the complete answer up to the next question. " +
		"Format lists with commas. Hyperlink syntax: '<a href=\"https://www.example.com/\" target=\"_blank\">example</a>'."
	return llm.Prompt{System: fmt.Sprintf("REQUEST: %s\nINSTRUCTIONS: %s\nJSON:%s", extractRequest, instructions, QAJSON)}
}

// Keywords is the hashtag generation spec. It takes no retrieval context.
var Keywords = Spec{
	Instructions: "Generate 6 hashtags from the answers that describe this business. " +
		"Avoid #local, #business and #shop, and avoid names and locations of other businesses. Output only the hashtags separated by spaces.",
	JSON: "# # # # # #",
	Tier: llm.TierGPT35,
}

// KeywordsPrompt builds the hashtag prompt; answers becomes the user part.
func KeywordsPrompt(answers string) llm.Prompt {
	return llm.Prompt{
		System: fmt.Sprintf("REQUEST: %s\n KEYWORDS TEMPLATE: %s", Keywords.Instructions, Keywords.JSON),
		User:   answers,
	}
}
