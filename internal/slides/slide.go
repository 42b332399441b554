package slides

// MediaType classifies what the display client renders for a slide.
type MediaType string

const (
	MediaText  MediaType = "text"
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

const (
	// DefaultDuration is the display time in seconds for records without a
	// usable Duration property.
	DefaultDuration = 10
	// DefaultLayout is used when the Layout select is unset.
	DefaultLayout = "Standard"
	// DefaultOrder sorts records without an Order property after every
	// explicitly ordered one.
	DefaultOrder = 999
)

// Slide is one normalized unit of displayable content in the published
// playlist. Field names match what the display client reads.
type Slide struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        MediaType `json:"type"`
	Src         *string   `json:"src"`
	Duration    int       `json:"duration"`
	Layout      string    `json:"layout"`
	Order       int       `json:"order"`
}

// SetMedia attaches a resolved cache filename to the slide. The src the
// client receives is the static route the daemon serves the cache under.
func (s *Slide) SetMedia(filename string, mediaType MediaType) {
	src := "/media/" + filename
	s.Src = &src
	s.Type = mediaType
}
