package handler

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

// profileRequest carries optional fields as pointers: an omitted key leaves
// the stored value untouched, an explicit "" clears it.
type profileRequest struct {
	Status         string  `json:"status"  validate:"required"`
	Skills         string  `json:"skills"  validate:"required"`
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	LinkedIn       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

type experienceRequest struct {
	Title       string `json:"title"    validate:"required"`
	Company     string `json:"company"  validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from"     validate:"required,date"`
	To          string `json:"to"       validate:"omitempty,date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school"       validate:"required"`
	Degree       string `json:"degree"       validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from"         validate:"required,date"`
	To           string `json:"to"           validate:"omitempty,date"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}
