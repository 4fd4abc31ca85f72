package domain

import "time"

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

type Service struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// About is the single about-me document.
type About struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Bio         string    `json:"bio"`
	Image       string    `json:"image"`
	Resume      string    `json:"resume"`
	Stats       []Stat    `json:"stats"`
	Services    []Service `json:"services"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (about About) Validate() error {
	if about.Title == "" || about.Description == "" || about.Bio == "" || about.Image == "" || about.Resume == "" {
		return invalid("Missing required fields: title, description, bio, image, resume")
	}
	return nil
}

// DefaultAbout is served until the owner saves their own content.
func DefaultAbout() About {
	return About{
		Title:       "About Me",
		Description: "Visionary technologist passionate about building scalable solutions",
		Bio:         "I am a purpose-driven technologist passionate about building scalable, AI-driven solutions that create real impact. With a keen eye for design and robust engineering principles, I bridge the gap between visionary ideas and production-ready products.",
		Image:       "/images/profile.jpg",
		Resume:      "/documents/resume.pdf",
		Stats: []Stat{
			{Label: "Projects Completed", Value: "50+", Icon: "🚀"},
			{Label: "Years Experience", Value: "3+", Icon: "💼"},
			{Label: "Happy Clients", Value: "30+", Icon: "😊"},
		},
		Services: []Service{
			{Title: "Frontend Development", Description: "Modern React applications with responsive design", Icon: "💻"},
			{Title: "Backend Development", Description: "Scalable Node.js and Python backend systems", Icon: "⚙️"},
			{Title: "UI/UX Design", Description: "User-centered design with Figma and prototyping", Icon: "🎨"},
		},
	}
}
