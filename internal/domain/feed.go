package domain

// FeedItem is a post denormalized for display: author and target profiles,
// paper metadata, and the viewer's like state are resolved in batch by the
// feed assembler. Actor is nil only if the author row vanished mid-assembly.
type FeedItem struct {
	Post   *Post       `json:"post"`
	Actor  *Profile    `json:"actor,omitempty"`
	Paper  *Paper      `json:"paper,omitempty"`
	Target *Profile    `json:"target,omitempty"`
	Likes  LikeSummary `json:"likes"`
	Phrase string      `json:"phrase"`
}

// QuarterCount is the number of papers a user finished in one calendar
// quarter, labeled like "Q3 2026".
type QuarterCount struct {
	Quarter string `json:"quarter"`
	Count   int    `json:"count"`
}
