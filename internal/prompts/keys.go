package prompts

// ContactsFile holds the contact inference prompts.
const ContactsFile = "contacts.json"

// Keys in ContactsFile.
const (
	WebsiteAnalysisSystem = "website-analysis-system"
	WebsiteAnalysis       = "website-analysis"
	ContactAnalysisSystem = "contact-analysis-system"
	ContactAnalysis       = "contact-analysis"
)
