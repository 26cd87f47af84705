package contentprovider

import "time"

// refsResponse is the repository metadata returned by the API root,
// used only to resolve the current master ref.
type refsResponse struct {
	Refs []struct {
		ID          string `json:"id"`
		Ref         string `json:"ref"`
		IsMasterRef bool   `json:"isMasterRef"`
	} `json:"refs"`
}

// searchResponse is the envelope of a documents/search query.
type searchResponse struct {
	Results []Document `json:"results"`
}

// Document is a single CMS document of type "post".
type Document struct {
	UID                 string    `json:"uid"`
	LastPublicationDate time.Time `json:"last_publication_date"`
	Data                struct {
		Title   []RichTextBlock `json:"title"`
		Content []RichTextBlock `json:"content"`
	} `json:"data"`
}

// RichTextBlock is one block of the CMS rich text format.
type RichTextBlock struct {
	Type string `json:"type"` // paragraph, heading1, heading2, ...
	Text string `json:"text"`
}
