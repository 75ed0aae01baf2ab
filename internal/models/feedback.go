package models

// Feedback is a title/content note owned by exactly one user.
type Feedback struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Username string `json:"username"`
}

// NewFeedback builds an unsaved feedback record for username. ID is assigned on insert.
func NewFeedback(title, content, username string) *Feedback {
	return &Feedback{
		Title:    title,
		Content:  content,
		Username: username,
	}
}

// Apply replaces title and content in place. ID and owner are left alone.
func (f *Feedback) Apply(title, content string) {
	f.Title = title
	f.Content = content
}
