package planet

import (
	"strings"
	"time"

	"starwars-api/internal/shared/crud"
)

const (
	maxTextLength       = 50
	maxPopulationLength = 100
)

type Planet struct {
	ID           int
	Name         string
	Diameter     float64
	Climate      string
	Gravity      string
	Terrain      string
	SurfaceWater string
	// Population is nil when unknown.
	Population *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Response struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Diameter     float64 `json:"diameter"`
	Climate      string  `json:"climate"`
	Gravity      string  `json:"gravity"`
	Terrain      string  `json:"terrain"`
	SurfaceWater string  `json:"surface_water"`
	Population   *string `json:"population"`
}

func (p *Planet) Serialize() Response {
	return Response{
		ID:           p.ID,
		Name:         p.Name,
		Diameter:     p.Diameter,
		Climate:      p.Climate,
		Gravity:      p.Gravity,
		Terrain:      p.Terrain,
		SurfaceWater: p.SurfaceWater,
		Population:   p.Population,
	}
}

type Input struct {
	Name         *string  `json:"name"`
	Diameter     *float64 `json:"diameter"`
	Climate      *string  `json:"climate"`
	Gravity      *string  `json:"gravity"`
	Terrain      *string  `json:"terrain"`
	SurfaceWater *string  `json:"surface_water"`
	Population   *string  `json:"population"`
}

func (in Input) missingFields() []string {
	var missing []string
	checkString := func(name string, v *string) {
		if v == nil || strings.TrimSpace(*v) == "" {
			missing = append(missing, name)
		}
	}

	checkString("name", in.Name)
	if in.Diameter == nil {
		missing = append(missing, "diameter")
	}
	checkString("climate", in.Climate)
	checkString("gravity", in.Gravity)
	checkString("terrain", in.Terrain)
	checkString("surface_water", in.SurfaceWater)
	return missing
}

func (in Input) validate() error {
	if err := crud.MissingFields(in.missingFields()); err != nil {
		return err
	}
	var population string
	if in.Population != nil {
		population = strings.TrimSpace(*in.Population)
	}
	return crud.FirstError(
		crud.CheckLength("name", strings.TrimSpace(*in.Name), maxTextLength),
		crud.CheckLength("climate", strings.TrimSpace(*in.Climate), maxTextLength),
		crud.CheckLength("gravity", strings.TrimSpace(*in.Gravity), maxTextLength),
		crud.CheckLength("terrain", strings.TrimSpace(*in.Terrain), maxTextLength),
		crud.CheckLength("surface_water", strings.TrimSpace(*in.SurfaceWater), maxTextLength),
		crud.CheckLength("population", population, maxPopulationLength),
	)
}

func (in Input) planet() Planet {
	p := Planet{
		Name:         strings.TrimSpace(*in.Name),
		Diameter:     *in.Diameter,
		Climate:      strings.TrimSpace(*in.Climate),
		Gravity:      strings.TrimSpace(*in.Gravity),
		Terrain:      strings.TrimSpace(*in.Terrain),
		SurfaceWater: strings.TrimSpace(*in.SurfaceWater),
	}
	if in.Population != nil {
		if pop := strings.TrimSpace(*in.Population); pop != "" {
			p.Population = &pop
		}
	}
	return p
}
