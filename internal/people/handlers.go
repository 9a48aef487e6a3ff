package people

import "starwars-api/internal/shared/crud"

func NewHandler(service *Service) *crud.Handler[*Person, Input] {
	return crud.NewHandler[*Person, Input]("people", service, func(p *Person) any {
		return p.Serialize()
	})
}
