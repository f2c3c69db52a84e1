package pshb

import (
	"fmt"
	"log"

	"github.com/mmcdole/gofeed"

	"tracker-bot/models"
)

// ContentParser validates one pushed feed document and extracts its posts.
// It collects every structural problem it finds instead of stopping at the
// first one, so a bad push can be diagnosed in a single report.
type ContentParser struct {
	feed             *gofeed.Feed
	defaultHub       string
	alwaysUseDefault bool
	errs             []error
}

// NewContentParser parses body as an RSS/Atom document. defaultHub is the
// feed URL to fall back to when the document does not advertise one;
// alwaysUseDefault forces the fallback regardless of what the document says.
func NewContentParser(body, defaultHub string, alwaysUseDefault bool) *ContentParser {
	p := &ContentParser{defaultHub: defaultHub, alwaysUseDefault: alwaysUseDefault}

	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("unparsable document: %w", err))
		return p
	}
	p.feed = feed

	for i, item := range feed.Items {
		if item.Title == "" {
			p.errs = append(p.errs, fmt.Errorf("entry %d: missing title", i+1))
		}
		if item.Link == "" {
			p.errs = append(p.errs, fmt.Errorf("entry %d (%q): missing link", i+1, item.Title))
		}
	}
	return p
}

// DataValid reports whether the document and every entry passed validation.
func (p *ContentParser) DataValid() bool {
	return len(p.errs) == 0
}

// Errors returns the collected validation problems, one per offending
// entry or document-level fault.
func (p *ContentParser) Errors() []error {
	return p.errs
}

// LogErrors dumps the collected problems as a batch.
func (p *ContentParser) LogErrors() {
	for _, err := range p.errs {
		log.Printf("Content validation: %v", err)
	}
}

// ExtractFeedURL returns the feed's own advertised URL, falling back to the
// configured default hub when the document omits one or when the
// configuration forces the default.
func (p *ContentParser) ExtractFeedURL() string {
	if p.alwaysUseDefault || p.feed == nil {
		return p.defaultHub
	}
	if p.feed.FeedLink != "" {
		return p.feed.FeedLink
	}
	if p.feed.Link != "" {
		return p.feed.Link
	}
	return p.defaultHub
}

// ExtractPosts returns the document's entries as posts, in order of
// appearance. Call only after DataValid reports true.
func (p *ContentParser) ExtractPosts() []models.Post {
	if p.feed == nil {
		return nil
	}
	posts := make([]models.Post, 0, len(p.feed.Items))
	for _, item := range p.feed.Items {
		posts = append(posts, models.Post{Title: item.Title, URL: item.Link})
	}
	return posts
}
