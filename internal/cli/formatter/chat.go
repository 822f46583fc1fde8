package formatter

// FormatUser renders a user turn for the chat transcript.
func FormatUser(text string) string {
	return Dim("you: ") + text
}

// FormatAssistant renders an assistant reply for the chat transcript.
func FormatAssistant(text string) string {
	return StyleGreen.Render("advisor: ") + StyleFg.Render(text)
}

// FormatThinking renders the placeholder shown while a reply is pending.
func FormatThinking() string {
	return StylePurple.Render("advisor: ") + Dim("thinking...")
}
