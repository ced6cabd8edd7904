package render

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"sports_dashboard/internal/domain"
)

const EmptyNews = "No news available"

var bodyPolicy = bluemonday.UGCPolicy()

type NewsCard struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Image    string `json:"image,omitempty"`
	HasImage bool   `json:"has_image"`
}

type NewsView struct {
	Cards        []NewsCard `json:"cards"`
	EmptyMessage string     `json:"empty_message,omitempty"`
}

type NewsDetail struct {
	NewsCard
	Body string `json:"body"`
}

func News(articles []domain.NewsArticle) NewsView {
	view := NewsView{Cards: make([]NewsCard, 0, len(articles))}
	for _, a := range articles {
		view.Cards = append(view.Cards, newsCard(a))
	}
	if len(view.Cards) == 0 {
		view.EmptyMessage = EmptyNews
	}
	return view
}

// FindNews returns the detail view of the article with the given id. The body
// is sanitized since upstream content is free-form HTML.
func FindNews(articles []domain.NewsArticle, id string) (NewsDetail, error) {
	for _, a := range articles {
		if a.ID != id {
			continue
		}
		body := a.Content
		if body == "" {
			body = "No content available"
		}
		return NewsDetail{
			NewsCard: newsCard(a),
			Body:     bodyPolicy.Sanitize(body),
		}, nil
	}
	return NewsDetail{}, fmt.Errorf("news article %q: %w", id, domain.ErrNotFound)
}

func newsCard(a domain.NewsArticle) NewsCard {
	card := NewsCard{
		ID:       a.ID,
		Category: a.Category,
		Title:    a.Title,
		Time:     a.Time,
	}
	if card.Category == "" {
		card.Category = "General"
	}
	if card.Title == "" {
		card.Title = "Untitled"
	}
	if card.Time == "" {
		card.Time = "Recently"
	}
	if img := strings.TrimSpace(a.Image); img != "" {
		card.Image = img
		card.HasImage = true
	}
	return card
}
