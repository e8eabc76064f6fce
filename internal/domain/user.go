package domain

type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderDiverse Gender = "Diverse"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderDiverse:
		return true
	}
	return false
}

type Role string

const RoleAdmin Role = "Admin"

type User struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Birthday  string `json:"birthday,omitempty"`
	Gender    Gender `json:"gender,omitempty"`
	Roles     []Role `json:"roles,omitempty"`
}

type NewUser struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Birthday  string `json:"birthday"`
	Gender    Gender `json:"gender"`
}

type Address struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	Country     string `json:"country"`
	PostalCode  int    `json:"postalCode"`
	Town        string `json:"town"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
}

type NewAddress struct {
	Country     string `json:"country"`
	PostalCode  int    `json:"postalCode"`
	Town        string `json:"town"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
}

// Session is a login session held by the remote backend.
type Session struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"userId"`
	Established DateTime `json:"established"`
	Data        string   `json:"data"`
}
