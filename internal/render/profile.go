package render

import (
	"strings"

	"sports_dashboard/internal/domain"
)

const notSet = "Not Set"

type ViewerCard struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Initials       string `json:"initials,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	IsPlayer       bool   `json:"is_player"`
	Position       string `json:"position"`
	Team           string `json:"team"`
	Sport          string `json:"sport"`
	DominantHand   string `json:"dominant_hand"`
	TrainingSkills string `json:"training_skills"`
}

// Viewer builds the profile header. Initials are only set when there is no
// profile picture.
func Viewer(u domain.User) ViewerCard {
	card := ViewerCard{
		ID:             u.ID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		Position:       notSet,
		Team:           notSet,
		Sport:          notSet,
		DominantHand:   notSet,
		TrainingSkills: notSet,
	}
	if card.ProfilePicture == "" {
		card.Initials = initials(u.Name)
	}

	p := u.PlayerProfile
	if p == nil || !p.IsPlayer {
		return card
	}
	card.IsPlayer = true
	card.Position = orNotSet(p.Position)
	card.Team = orNotSet(p.Team)
	card.Sport = orNotSet(strings.ToUpper(p.Sport))
	card.DominantHand = orNotSet(p.DominantHand)
	card.TrainingSkills = orNotSet(p.TrainingSkills)
	return card
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}

func orNotSet(v string) string {
	if v == "" {
		return notSet
	}
	return v
}
