package entity

// ExternalProfile is a provider-verified identity handed to federation.
type ExternalProfile struct {
	ProviderID  string
	Email       string
	DisplayName string
	PictureURL  string
}
