package participant

import "github.com/deppfellow/go-calendar/internal/model"

const (
	NameMaxLength  = 600
	EmailMaxLength = 320
)

type Participant struct {
	model.Base
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}
