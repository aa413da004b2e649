package domain

const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
)

type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author"`
	Website string `json:"website"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Year    string `json:"year"`
}
