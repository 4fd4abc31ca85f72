package domain

import (
	"strings"
	"time"
)

type Hero struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	TypingTexts []string `json:"typingTexts"`
}

type AboutSection struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Bio         string    `json:"bio"`
	Image       string    `json:"image"`
	Stats       []Stat    `json:"stats"`
	Services    []Service `json:"services"`
}

type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Contact struct {
	Email       string      `json:"email"`
	Location    string      `json:"location,omitempty"`
	SocialLinks SocialLinks `json:"socialLinks"`
}

type SEO struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords"`
}

// SiteContent is the single document behind the landing page sections.
type SiteContent struct {
	Hero      Hero         `json:"hero"`
	About     AboutSection `json:"about"`
	Contact   Contact      `json:"contact"`
	SEO       SEO          `json:"seo"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (content SiteContent) Validate() error {
	var fields []string
	required := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			fields = append(fields, name+" is required")
		}
	}
	required(content.Hero.Title, "hero.title")
	required(content.Hero.Subtitle, "hero.subtitle")
	required(content.Hero.Description, "hero.description")
	required(content.About.Title, "about.title")
	required(content.About.Description, "about.description")
	required(content.About.Bio, "about.bio")
	required(content.About.Image, "about.image")
	required(content.Contact.Email, "contact.email")
	if len(fields) > 0 {
		return invalid("Validation failed", fields...)
	}
	if !ValidEmail(content.Contact.Email) {
		return invalid("Please provide a valid email address")
	}
	return nil
}

// WithEmptySlices replaces nil lists so the document always encodes arrays.
func (content SiteContent) WithEmptySlices() SiteContent {
	if content.Hero.TypingTexts == nil {
		content.Hero.TypingTexts = []string{}
	}
	if content.About.Stats == nil {
		content.About.Stats = []Stat{}
	}
	if content.About.Services == nil {
		content.About.Services = []Service{}
	}
	if content.SEO.Keywords == nil {
		content.SEO.Keywords = []string{}
	}
	return content
}

// DefaultSiteContent is created on the first read.
func DefaultSiteContent() SiteContent {
	return SiteContent{
		Hero: Hero{
			Title:       "Kongyu Jesse Ntani",
			Subtitle:    "Full Stack Developer",
			Description: "Visionary technologist crafting scalable, AI-driven solutions",
		},
		About: AboutSection{
			Title:       "About Me",
			Description: "Purpose-driven technologist passionate about building scalable solutions",
			Bio:         "I am a purpose-driven technologist passionate about building scalable, AI-driven solutions that create real impact.",
			Image:       "/images/profile.jpg",
		},
		Contact: Contact{
			Email: "kongyujesse@gmail.com",
			SocialLinks: SocialLinks{
				LinkedIn: "https://linkedin.com/in/kongyujesse",
				GitHub:   "https://github.com/kongyujesse",
				Twitter:  "https://twitter.com/kongyujesse",
			},
		},
	}.WithEmptySlices()
}
