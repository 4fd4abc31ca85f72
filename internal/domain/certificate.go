package domain

import "time"

type Certificate struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Issuer        string    `json:"issuer"`
	IssueDate     time.Time `json:"issueDate"`
	CredentialURL string    `json:"credentialUrl,omitempty"`
	Image         string    `json:"image"`
	Description   string    `json:"description"`
	Skills        []string  `json:"skills"`
	Featured      bool      `json:"featured"`
	Order         int       `json:"order"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (certificate Certificate) Validate() error {
	if certificate.Name == "" || certificate.Issuer == "" || certificate.IssueDate.IsZero() || certificate.Image == "" {
		return invalid("Missing required fields: name, issuer, issueDate, image")
	}
	return nil
}
