// internal/models/contact.go
package models

type ContactStatus string

const (
	ContactNotContacted  ContactStatus = "Not Contacted"
	ContactSendMessage   ContactStatus = "Send Message"
	ContactAwaitingReply ContactStatus = "Awaiting Reply"
	ContactReplied       ContactStatus = "Replied"
	ContactInterested    ContactStatus = "Interested"
	ContactDemoBooked    ContactStatus = "Demo Booked"
	ContactNotInterested ContactStatus = "Not Interested"
)

type Contact struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Title        string        `json:"title"`
	Email        string        `json:"email"`
	LinkedIn     string        `json:"linkedin"`
	CompanyID    string        `json:"companyId"`
	CompanyName  string        `json:"company"`
	PersonaMatch string        `json:"personaMatch"`
	MatchScore   int           `json:"matchScore"`
	Status       ContactStatus `json:"status"`
	StatusDays   int           `json:"statusDays"`
}
