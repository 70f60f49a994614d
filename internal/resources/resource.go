package resources

// Resource is the canonical shape every retrieved document is projected
// into, regardless of where it came from. Optional fields are omitted when
// the source record does not carry them.
type Resource struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	ContentType    string   `json:"content_type"`
	Source         string   `json:"source,omitempty"`
	URL            string   `json:"url,omitempty"`
	Author         string   `json:"author,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	ISBN           string   `json:"isbn,omitempty"`
	KeyConcepts    []string `json:"key_concepts,omitempty"`
	Snippet        string   `json:"snippet,omitempty"`
	ChannelName    string   `json:"channel_name,omitempty"`
	DurationSecs   int      `json:"duration_seconds,omitempty"`
	IsPlaylist     bool     `json:"is_playlist,omitempty"`
	ViewCount      int64    `json:"view_count,omitempty"`
	PageCount      int      `json:"page_count,omitempty"`
	PublicationYr  int      `json:"publication_year,omitempty"`
	RelevanceScore float64  `json:"relevance_score"`
	SemanticScore  float64  `json:"semantic_score"`
}

// Resource content types, matching the document store's kind values.
const (
	KindBook  = "book"
	KindSlide = "slide"
	KindVideo = "video"
)
