package firebase

import (
	"github.com/angelmondragon/storefront-checkout/pkg/config"
)

// Missing lists the Firebase settings that are unset, named by their
// environment variable, in declaration order.
func Missing(cfg config.FirebaseConfig) []string {
	fields := []struct {
		env   string
		value string
	}{
		{config.EnvFirebaseAPIKey, cfg.APIKey},
		{config.EnvFirebaseAuthDomain, cfg.AuthDomain},
		{config.EnvFirebaseDatabaseURL, cfg.DatabaseURL},
		{config.EnvFirebaseProjectID, cfg.ProjectID},
		{config.EnvFirebaseStorageBucket, cfg.StorageBucket},
		{config.EnvFirebaseMessagingSenderID, cfg.MessagingSenderID},
		{config.EnvFirebaseAppID, cfg.AppID},
		{config.EnvFirebaseMeasurementID, cfg.MeasurementID},
	}

	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.env)
		}
	}
	return missing
}
