package render

import (
	"regexp"
	"strings"

	"sports_dashboard/internal/domain"
)

// WatchCategories is the display order of the watch page grids.
var WatchCategories = []string{
	"full-matches",
	"highlights",
	"old-matches",
	"upcoming-matches",
}

var (
	youtubeRe  = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)
	shortsRe   = regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`)
	tiktokRe   = regexp.MustCompile(`/video/(\d+)`)
	vimeoRe    = regexp.MustCompile(`vimeo\.com/(\d+)`)
	videoExtRe = regexp.MustCompile(`(?i)\.(mp4|webm|ogg|mov)(\?.*)?$`)
	imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)(\?.*)?$`)
)

// Embed describes how a media URL should be shown. Clickable embeds open
// OriginalURL in a new tab instead of playing inline.
type Embed struct {
	Type        string `json:"type"`
	EmbedURL    string `json:"embed_url"`
	Source      string `json:"source"`
	Clickable   bool   `json:"clickable"`
	OriginalURL string `json:"original_url,omitempty"`
}

func ClassifyEmbed(url string) Embed {
	for _, re := range []*regexp.Regexp{youtubeRe, shortsRe} {
		if m := re.FindStringSubmatch(url); m != nil {
			return Embed{Type: "youtube", EmbedURL: "https://www.youtube.com/embed/" + m[1] + "?autoplay=0&rel=0", Source: "YouTube"}
		}
	}

	if strings.Contains(url, "instagram.com") {
		clean, _, _ := strings.Cut(url, "?")
		if !strings.HasSuffix(clean, "/") {
			clean += "/"
		}
		return Embed{Type: "instagram", EmbedURL: clean + "embed/", Source: "Instagram"}
	}

	if m := tiktokRe.FindStringSubmatch(url); m != nil {
		return Embed{Type: "tiktok", EmbedURL: "https://www.tiktok.com/embed/v2/" + m[1], Source: "TikTok", Clickable: true, OriginalURL: url}
	}

	if m := vimeoRe.FindStringSubmatch(url); m != nil {
		return Embed{Type: "vimeo", EmbedURL: "https://player.vimeo.com/video/" + m[1], Source: "Vimeo"}
	}

	if strings.Contains(url, "twitter.com") || strings.Contains(url, "x.com") {
		return Embed{Type: "twitter", EmbedURL: url, Source: "Twitter/X", Clickable: true, OriginalURL: url}
	}

	if strings.Contains(url, "facebook.com") || strings.Contains(url, "fb.watch") {
		return Embed{Type: "facebook", EmbedURL: url, Source: "Facebook", Clickable: true, OriginalURL: url}
	}

	if videoExtRe.MatchString(url) {
		return Embed{Type: "video", EmbedURL: url, Source: "Video"}
	}
	if imageExtRe.MatchString(url) {
		return Embed{Type: "image", EmbedURL: url, Source: "Image"}
	}

	return Embed{Type: "generic", EmbedURL: url, Source: "External", Clickable: true, OriginalURL: url}
}

type MediaCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Tag         string `json:"tag"`
	Embed       Embed  `json:"embed"`
}

type MediaGroup struct {
	Category     string      `json:"category"`
	Cards        []MediaCard `json:"cards"`
	EmptyMessage string      `json:"empty_message,omitempty"`
}

type WatchView struct {
	Groups []MediaGroup `json:"groups"`
}

// Watch groups active media into the watch page grids. Media in categories
// without a grid is skipped.
func Watch(media []domain.Media) WatchView {
	byCategory := make(map[string][]MediaCard, len(WatchCategories))
	for _, m := range media {
		if !m.IsActive {
			continue
		}
		byCategory[m.Category] = append(byCategory[m.Category], MediaCard{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Tag:         strings.ToUpper(m.Category),
			Embed:       ClassifyEmbed(m.URL),
		})
	}

	view := WatchView{Groups: make([]MediaGroup, 0, len(WatchCategories))}
	for _, c := range WatchCategories {
		group := MediaGroup{Category: c, Cards: byCategory[c]}
		if len(group.Cards) == 0 {
			group.Cards = []MediaCard{}
			group.EmptyMessage = "No " + strings.Replace(c, "-", " ", 1) + " available"
		}
		view.Groups = append(view.Groups, group)
	}
	return view
}
