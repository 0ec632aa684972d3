package domain

// PromptTemplate drives the backend's email generation.
type PromptTemplate struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Template string `json:"template"`
	IsActive bool   `json:"is_active"`
}

// PromptInput is the body of the create and update prompt operations.
type PromptInput struct {
	Name     string `json:"name"`
	Template string `json:"template"`
	IsActive bool   `json:"is_active"`
}
