package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

// ClientOptionsFromEnv builds client options for GCS. With
// GCS_EMULATOR_HOST set, credentials are skipped so local development can
// run against a fake server.
func ClientOptionsFromEnv() []option.ClientOption {
	var opts []option.ClientOption

	if host := strings.TrimSpace(os.Getenv("GCS_EMULATOR_HOST")); host != "" {
		opts = append(opts,
			option.WithEndpoint("http://"+host+"/storage/v1/"),
			option.WithoutAuthentication(),
		)
		return opts
	}

	if creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}
