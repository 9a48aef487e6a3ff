package planet

import "starwars-api/internal/shared/crud"

func NewHandler(service *Service) *crud.Handler[*Planet, Input] {
	return crud.NewHandler[*Planet, Input]("planets", service, func(p *Planet) any {
		return p.Serialize()
	})
}
