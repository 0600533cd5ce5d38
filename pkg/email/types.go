package email

// Message is one outgoing mail. Headers are added verbatim after the
// standard ones.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}
