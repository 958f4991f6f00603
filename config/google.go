package config

import (
	"fmt"
	"os"
)

type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	TokenEndpoint string
}

func GetGoogleConfig() (*GoogleConfig, error) {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID must be set")
	}
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_SECRET must be set")
	}
	refreshToken := os.Getenv("GOOGLE_REFRESH_TOKEN")
	if refreshToken == "" {
		return nil, fmt.Errorf("GOOGLE_REFRESH_TOKEN must be set")
	}
	tokenEndpoint := os.Getenv("GOOGLE_TOKEN_ENDPOINT")
	if tokenEndpoint == "" {
		tokenEndpoint = "https://oauth2.googleapis.com/token"
	}

	return &GoogleConfig{
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		RefreshToken:  refreshToken,
		TokenEndpoint: tokenEndpoint,
	}, nil
}
