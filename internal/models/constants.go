package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	ContextSeparator = "\n"

	ThinkTag = `(?s)<think>.*?</think>`
)
