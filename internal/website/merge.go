package website

import "github.com/MarkoPoloResearchLab/sitedash/internal/model"

// EditForm holds the hand-editable fields of a website.
type EditForm struct {
	Title          string `form:"title"`
	HeroHeading    string `form:"hero_heading"`
	HeroSubheading string `form:"hero_subheading"`
	AboutHeading   string `form:"about_heading"`
	AboutText      string `form:"about_text"`
	ContactEmail   string `form:"contact_email"`
	ContactPhone   string `form:"contact_phone"`
	ContactAddress string `form:"contact_address"`
}

// FormFromContent pre-populates an edit form from stored content.
func FormFromContent(content model.WebsiteContent) EditForm {
	return EditForm{
		Title:          content.Title,
		HeroHeading:    content.HeroSection.Heading,
		HeroSubheading: content.HeroSection.Subheading,
		AboutHeading:   content.AboutSection.Heading,
		AboutText:      content.AboutSection.Text,
		ContactEmail:   content.ContactSection.Email,
		ContactPhone:   content.ContactSection.Phone,
		ContactAddress: content.ContactSection.Address,
	}
}

// BuildUpdatePayload combines the edited fields with the generated fields of existing.
//
// The hero image description, the services section, the contact heading and the theme are
// never edited by hand and are copied from existing. A nil existing produces a partial payload:
// the image description is blank and the opaque sections are omitted. The result shares no
// memory with either input.
func BuildUpdatePayload(form EditForm, existing *model.WebsiteContent) model.WebsiteContent {
	payload := model.WebsiteContent{
		Title: form.Title,
		HeroSection: model.HeroSection{
			Heading:    form.HeroHeading,
			Subheading: form.HeroSubheading,
		},
		AboutSection: model.AboutSection{
			Heading: form.AboutHeading,
			Text:    form.AboutText,
		},
		ContactSection: model.ContactSection{
			Email:   form.ContactEmail,
			Phone:   form.ContactPhone,
			Address: form.ContactAddress,
		},
	}
	if existing == nil {
		return payload
	}

	payload.HeroSection.ImageDescription = existing.HeroSection.ImageDescription
	payload.ContactSection.Heading = existing.ContactSection.Heading
	payload.ServicesSection = model.CloneJSON(existing.ServicesSection)
	payload.Theme = model.CloneJSON(existing.Theme)
	return payload
}
