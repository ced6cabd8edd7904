package api

import "sports_dashboard/internal/domain"

// currentUser is the payload of GET /users/current-user. Unlike the list
// endpoints it carries the id as "id".
type currentUser struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	ProfilePicture *string               `json:"profilePicture"`
	PlayerProfile  *domain.PlayerProfile `json:"playerProfile"`
}

func (u currentUser) toDomain() domain.User {
	user := domain.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		PlayerProfile: u.PlayerProfile,
	}
	if u.ProfilePicture != nil {
		user.ProfilePicture = *u.ProfilePicture
	}
	return user
}
