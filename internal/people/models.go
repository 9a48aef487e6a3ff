package people

import (
	"strings"
	"time"

	"starwars-api/internal/shared/crud"
)

// maxTextLength is the width of every text column of the people table.
const maxTextLength = 50

type Person struct {
	ID        int
	Name      string
	Height    int
	Mass      int
	HairColor string
	SkinColor string
	EyeColor  string
	BirthYear string
	Gender    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Response struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Height    int    `json:"height"`
	Mass      int    `json:"mass"`
	HairColor string `json:"hair_color"`
	SkinColor string `json:"skin_color"`
	EyeColor  string `json:"eye_color"`
	BirthYear string `json:"birth_year"`
	Gender    string `json:"gender"`
}

func (p *Person) Serialize() Response {
	return Response{
		ID:        p.ID,
		Name:      p.Name,
		Height:    p.Height,
		Mass:      p.Mass,
		HairColor: p.HairColor,
		SkinColor: p.SkinColor,
		EyeColor:  p.EyeColor,
		BirthYear: p.BirthYear,
		Gender:    p.Gender,
	}
}

// Input is the create/update body. Pointers distinguish an absent field from
// a zero value; every field is required.
type Input struct {
	Name      *string `json:"name"`
	Height    *int    `json:"height"`
	Mass      *int    `json:"mass"`
	HairColor *string `json:"hair_color"`
	SkinColor *string `json:"skin_color"`
	EyeColor  *string `json:"eye_color"`
	BirthYear *string `json:"birth_year"`
	Gender    *string `json:"gender"`
}

func (in Input) missingFields() []string {
	var missing []string
	checkString := func(name string, v *string) {
		if v == nil || strings.TrimSpace(*v) == "" {
			missing = append(missing, name)
		}
	}

	checkString("name", in.Name)
	if in.Height == nil {
		missing = append(missing, "height")
	}
	if in.Mass == nil {
		missing = append(missing, "mass")
	}
	checkString("hair_color", in.HairColor)
	checkString("skin_color", in.SkinColor)
	checkString("eye_color", in.EyeColor)
	checkString("birth_year", in.BirthYear)
	checkString("gender", in.Gender)
	return missing
}

// validate checks a complete input against the column limits.
func (in Input) validate() error {
	if err := crud.MissingFields(in.missingFields()); err != nil {
		return err
	}
	return crud.FirstError(
		crud.CheckLength("name", strings.TrimSpace(*in.Name), maxTextLength),
		crud.CheckInt32("height", *in.Height),
		crud.CheckInt32("mass", *in.Mass),
		crud.CheckLength("hair_color", strings.TrimSpace(*in.HairColor), maxTextLength),
		crud.CheckLength("skin_color", strings.TrimSpace(*in.SkinColor), maxTextLength),
		crud.CheckLength("eye_color", strings.TrimSpace(*in.EyeColor), maxTextLength),
		crud.CheckLength("birth_year", strings.TrimSpace(*in.BirthYear), maxTextLength),
		crud.CheckLength("gender", strings.TrimSpace(*in.Gender), maxTextLength),
	)
}

// person converts a validated input into a record ready for insert/update.
func (in Input) person() Person {
	return Person{
		Name:      strings.TrimSpace(*in.Name),
		Height:    *in.Height,
		Mass:      *in.Mass,
		HairColor: strings.TrimSpace(*in.HairColor),
		SkinColor: strings.TrimSpace(*in.SkinColor),
		EyeColor:  strings.TrimSpace(*in.EyeColor),
		BirthYear: strings.TrimSpace(*in.BirthYear),
		Gender:    strings.TrimSpace(*in.Gender),
	}
}
