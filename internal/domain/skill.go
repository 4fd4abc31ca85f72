package domain

import "time"

var skillCategories = []string{"frontend", "backend", "design", "soft"}

type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Level     int       `json:"level"`
	Logo      string    `json:"logo"`
	Order     int       `json:"order"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SkillFilter struct {
	Category string
	Featured *bool
}

func (filter SkillFilter) Match(skill Skill) bool {
	if filter.Category != "" && skill.Category != filter.Category {
		return false
	}
	if filter.Featured != nil && skill.Featured != *filter.Featured {
		return false
	}
	return true
}

func (skill Skill) Validate() error {
	if skill.Name == "" || skill.Category == "" {
		return invalid("Each skill must have name, category, and level")
	}
	if !oneOf(skill.Category, skillCategories...) {
		return invalid("Invalid category. Must be one of: frontend, backend, design, soft")
	}
	if skill.Level < 0 || skill.Level > 100 {
		return invalid("Skill level must be between 0 and 100")
	}
	return nil
}
