package view

import (
	"github.com/example/fondantshop/pkg/dom"
	"github.com/example/fondantshop/pkg/models"
)

const memberSinceLayout = "January 2, 2006"

// AccountInfo fills the account panel for user. Missing fields are skipped.
func AccountInfo(doc *dom.Document, user *models.Identity) {
	if el := doc.ByID("user-name"); el != nil {
		name := user.DisplayName
		if name == "" {
			name = "User"
		}
		el.SetText(name)
	}
	if el := doc.ByID("user-email"); el != nil {
		el.SetText(user.Email)
	}
	if el := doc.ByID("user-member-since"); el != nil && !user.CreatedAt.IsZero() {
		el.SetText(user.CreatedAt.Format(memberSinceLayout))
	}
	if el := doc.ByID("email-verified-status"); el != nil {
		if user.EmailVerified {
			el.SetInnerHTML(`<span class="badge bg-success"><i class="fas fa-check-circle"></i> Email Verified</span>`)
		} else {
			el.SetInnerHTML(`<span class="badge bg-warning"><i class="fas fa-exclamation-circle"></i> Email Not Verified</span>`)
		}
	}
}
