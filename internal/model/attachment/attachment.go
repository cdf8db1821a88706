package attachment

import "github.com/deppfellow/go-calendar/internal/model"

const URLMaxLength = 2048

type Attachment struct {
	model.Base
	URL string `json:"url" db:"url"`
}
