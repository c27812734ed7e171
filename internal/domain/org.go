package domain

import "time"

type Organization struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	LogoURL      string    `json:"logo_url"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Address      string    `json:"address"`
	Categories   []string  `json:"preferred_categories"`
	CreatedOn    time.Time `json:"created_on"`
}
