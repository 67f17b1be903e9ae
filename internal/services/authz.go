package services

import "drwheels/internal/domain"

// canMutate is the single ownership predicate: the resource owner or an
// admin may mutate, everyone else is forbidden.
func canMutate(actor *domain.User, ownerID string) bool {
	return actor.ID == ownerID || actor.IsAdmin()
}
