package email

import (
	"fmt"
	"strings"
)

type Message struct {
	Subject string
	Body    string
}

type ActivationDetails struct {
	Name     string
	ClubName string
	LoginURL string
}

// BuildActivationEmail tells a member their account has been unlocked.
func BuildActivationEmail(details ActivationDetails) Message {
	club := strings.TrimSpace(details.ClubName)
	if club == "" {
		club = "deinem Tennisverein"
	}
	name := strings.TrimSpace(details.Name)
	greeting := "Hallo,"
	if name != "" {
		greeting = fmt.Sprintf("Hallo %s,", name)
	}

	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "dein Account bei %s wurde von einem Administrator freigeschaltet.\n", club)
	b.WriteString("Du kannst dich jetzt anmelden und Plätze buchen.\n")
	if url := strings.TrimSpace(details.LoginURL); url != "" {
		fmt.Fprintf(&b, "\nAnmelden: %s\n", url)
	}
	b.WriteString("\nViel Spaß auf dem Platz!\n")

	return Message{
		Subject: fmt.Sprintf("Dein Account bei %s ist aktiv", club),
		Body:    b.String(),
	}
}
