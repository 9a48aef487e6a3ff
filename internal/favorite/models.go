package favorite

import (
	"strings"
	"time"

	"starwars-api/internal/shared/crud"
	"starwars-api/internal/shared/errors"
)

// Nature names the catalog table a favorite points at.
type Nature string

const (
	NaturePeople  Nature = "people"
	NaturePlanets Nature = "planets"
)

func ParseNature(s string) (Nature, error) {
	switch n := Nature(strings.ToLower(s)); n {
	case NaturePeople, NaturePlanets:
		return n, nil
	default:
		return "", errors.Validationf("unknown favorite nature %q, expected people or planets", s)
	}
}

type Favorite struct {
	ID        int
	UserID    int
	Name      string
	Nature    Nature
	NatureID  int
	CreatedAt time.Time
}

type Response struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Nature    Nature    `json:"nature"`
	NatureID  int       `json:"nature_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) Serialize() Response {
	return Response{
		ID:        f.ID,
		UserID:    f.UserID,
		Name:      f.Name,
		Nature:    f.Nature,
		NatureID:  f.NatureID,
		CreatedAt: f.CreatedAt,
	}
}

// Input is the create/update body. Name defaults to the referenced row's name.
type Input struct {
	NatureID *int    `json:"nature_id"`
	Name     *string `json:"name"`
}

const maxNameLength = 60

func (in Input) validate() error {
	if in.NatureID == nil {
		return errors.Validation("missing required fields: nature_id")
	}
	if *in.NatureID <= 0 || *in.NatureID > crud.MaxID {
		return errors.Validation("nature_id must be a positive integer")
	}
	return crud.CheckLength("name", in.name(), maxNameLength)
}

func (in Input) name() string {
	if in.Name == nil {
		return ""
	}
	return strings.TrimSpace(*in.Name)
}
