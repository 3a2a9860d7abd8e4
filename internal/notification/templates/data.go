package templates

// PasswordResetData holds variables for the identity.password_reset scenario.
type PasswordResetData struct {
	FirstName    string
	Token        string
	ExpiresIn    string
	SupportEmail string
}

// PasswordReset is the typed handle for the identity.password_reset template.
var PasswordReset = Expect[PasswordResetData]("identity.password_reset")

// WelcomeData holds variables for the identity.welcome scenario sent after
// password-based registration.
type WelcomeData struct {
	FirstName    string
	SupportEmail string
}

// Welcome is the typed handle for the identity.welcome template.
var Welcome = Expect[WelcomeData]("identity.welcome")
