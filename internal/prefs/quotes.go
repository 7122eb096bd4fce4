package prefs

// Quote is shown once per invocation of `daybook quote`.
type Quote struct {
	Text   string
	Author string
}

var Quotes = []Quote{
	{"What gets measured gets managed.", "Peter Drucker"},
	{"How we spend our days is, of course, how we spend our lives.", "Annie Dillard"},
	{"The key is not to prioritize what's on your schedule, but to schedule your priorities.", "Stephen Covey"},
	{"Lost time is never found again.", "Benjamin Franklin"},
	{"You will never find time for anything. If you want time you must make it.", "Charles Buxton"},
	{"Until we can manage time, we can manage nothing else.", "Peter Drucker"},
}

var Affirmations = []string{
	"Rest is part of the work.",
	"Small steps still move you forward.",
	"You did enough today.",
	"Energy follows attention.",
	"Progress, not perfection.",
}

func (p *Prefs) NextQuote() Quote {
	return Quotes[p.NextIndex(KeyQuoteIndex, len(Quotes))]
}

func (p *Prefs) NextAffirmation() string {
	return Affirmations[p.NextIndex(KeyAffirmationIndex, len(Affirmations))]
}
