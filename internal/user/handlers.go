package user

import "starwars-api/internal/shared/crud"

func NewHandler(service *Service) *crud.Handler[*User, Input] {
	return crud.NewHandler[*User, Input]("users", service, func(u *User) any {
		return u.Serialize()
	})
}
