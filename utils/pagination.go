package utils

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination is the validated page/limit query pair.
type Pagination struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Normalize fills defaults and reports per-field problems.
func (p *Pagination) Normalize() map[string]string {
	errors := make(map[string]string)
	if p.Page == 0 {
		p.Page = 1
	} else if p.Page < 0 {
		errors["page"] = "Page must be greater than 0!"
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	} else if p.Limit < 0 || p.Limit > MaxPageLimit {
		errors["limit"] = "Limit must be between 1 and 100!"
	}
	return errors
}
