package profile

// ProfileCreateInput for POST /profile
type ProfileCreateInput struct {
	Body struct {
		Name        string `json:"name"                  minLength:"1" maxLength:"100" pattern:"\\S" required:"true" doc:"Display name"     example:"Alice"`
		Email       string `json:"email,omitempty"       format:"email"                                            doc:"Email address"    example:"alice@example.com"`
		PhoneNumber string `json:"phoneNumber,omitempty" pattern:"^\\+[1-9]\\d{6,14}$"                             doc:"Phone (E.164)"    example:"+358401234567"`
		Marketing   bool   `json:"marketing,omitempty"                                                             doc:"Marketing opt-in" example:"true"`
	}
}

// ProfileGetInput for GET /profile (no body needed)
type ProfileGetInput struct{}

// ProfileUpdateInput for PATCH /profile
type ProfileUpdateInput struct {
	Body struct {
		Name        *string `json:"name,omitempty"        minLength:"1" maxLength:"100" pattern:"\\S" doc:"Display name"     example:"Alicia"`
		Email       *string `json:"email,omitempty"       format:"email"                doc:"Email address"    example:"alice@example.com"`
		PhoneNumber *string `json:"phoneNumber,omitempty" pattern:"^\\+[1-9]\\d{6,14}$" doc:"Phone (E.164)"    example:"+358401234567"`
		Marketing   *bool   `json:"marketing,omitempty"                                 doc:"Marketing opt-in" example:"false"`
	}
}

// ProfileDeleteInput for DELETE /profile (no body needed)
type ProfileDeleteInput struct{}
