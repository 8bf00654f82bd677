package email

// Template names an embedded HTML template (templates/<name>.html).
type Template string

const (
	TemplateWelcome Template = "welcome"
)
