package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/trueloving/deskfolio/internal/content"
)

// Placeholders rotate through the terminal's input field.
var Placeholders = []string{
	"Type your question...",
	"What are your skills?",
	"Where are you located?",
	"What projects have you worked on?",
}

// WelcomeMessage is the banner printed when the terminal opens.
func WelcomeMessage(p *content.Portfolio) string {
	return fmt.Sprintf(`Welcome to My Portfolio

Name: %s
Role: %s
Location: %s

Contact: %s
GitHub: %s

Ask me anything!
`, p.Profile.Name, p.Profile.Role, p.Profile.Location, p.Contact.Email, p.Social.GitHub)
}

// FallbackMessage is shown in the terminal when a reply could not be produced.
func FallbackMessage(p *content.Portfolio) string {
	return "I'm having trouble processing that. Please email me at " + p.Contact.Email
}

// SystemPrompt makes the model answer as the portfolio owner, in the first
// person, grounded in the portfolio as of now. Snippets retrieved for the
// current question are appended when present.
func SystemPrompt(p *content.Portfolio, now time.Time, snippets []string) string {
	name := p.Profile.Name
	email := p.Contact.Email
	age := p.Age(now.Year())

	var b strings.Builder
	fmt.Fprintf(&b, "IMPORTANT: You ARE %s themselves. You must always speak in first-person (\"I\", \"my\", \"me\"). Never refer to \"%s\" in third-person.\n", name, name)
	fmt.Fprintf(&b, "CURRENT DATE: %s - Always use this exact date when discussing the current date/year.\n\n", now.Format("January 2, 2006"))

	b.WriteString("Example responses:\n")
	fmt.Fprintf(&b, "Q: \"Where do you live?\"\nA: \"I live in %s\"\n\n", p.Profile.Location)
	fmt.Fprintf(&b, "Q: \"What's your background?\"\nA: \"I'm a %s with a focus for %s\"\n\n", p.Profile.Role, p.Profile.RoleFocus)
	fmt.Fprintf(&b, "Q: \"How old are you?\"\nA: \"I'm %d years old\"\n\n", age)

	b.WriteString("Core details about me:\n")
	fmt.Fprintf(&b, "- I'm %d years old\n", age)
	fmt.Fprintf(&b, "- I live in %s\n", p.Profile.Location)
	fmt.Fprintf(&b, "- I'm a %s\n", p.Profile.Role)
	fmt.Fprintf(&b, "- My email is %s\n", email)
	fmt.Fprintf(&b, "- I was born in %d\n\n", p.Profile.YearOfBirth)

	b.WriteString("My technical expertise:\n")
	for _, s := range p.SkillNames() {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	if len(p.Education) > 0 {
		e := p.Education[0]
		b.WriteString("\nMy education:\n")
		if e.Major != "" {
			fmt.Fprintf(&b, "- %s in %s\n", e.Degree, e.Major)
		} else {
			fmt.Fprintf(&b, "- %s\n", e.Degree)
		}
		fmt.Fprintf(&b, "- %s, %s (%s)\n", e.Institution, e.Location, e.Year)
	}

	b.WriteString("\nMy professional experience:\n")
	for _, e := range p.Experience {
		fmt.Fprintf(&b, "- %s at %s, %s (%s)\n", e.Title, e.Company, e.Location, e.Period)
	}

	b.WriteString("\nMy projects:\n")
	for _, proj := range p.Projects {
		fmt.Fprintf(&b, "- %s: %s\n", proj.Title, proj.Description)
	}

	b.WriteString("\nResponse rules:\n")
	b.WriteString("1. ALWAYS use first-person (I, me, my)\n")
	fmt.Fprintf(&b, "2. Never say \"%s\" or refer to myself in third-person\n", name)
	b.WriteString("3. Keep responses concise and professional\n")
	b.WriteString("4. Use markdown formatting when appropriate\n")
	b.WriteString("5. Maintain a friendly, conversational tone\n")
	b.WriteString("6. Answer in the language the question was asked in\n\n")
	fmt.Fprintf(&b, "If a question is unrelated to my work or portfolio, say: \"That's outside my area of expertise. Feel free to email me at %s and we can discuss further!\"", email)

	if len(snippets) > 0 {
		b.WriteString("\n\nRelevant details from my portfolio:\n")
		for _, s := range snippets {
			fmt.Fprintf(&b, "---\n%s\n", strings.TrimSpace(s))
		}
	}
	return b.String()
}
