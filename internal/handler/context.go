package handler

type ContextKey string

var (
	TermCtx ContextKey = "term"
)
