package restapi

// ClientOption adjusts a resource client at construction. The API version is fixed afterwards.
type ClientOption func(*ClientSettings)

type ClientSettings struct {
	APIVersion string
}

func WithAPIVersion(version string) ClientOption {
	return func(settings *ClientSettings) {
		if version != "" {
			settings.APIVersion = version
		}
	}
}

// ApplyOptions returns the settings produced by options on top of defaultVersion.
func ApplyOptions(defaultVersion string, options ...ClientOption) ClientSettings {
	settings := ClientSettings{APIVersion: defaultVersion}
	for _, option := range options {
		option(&settings)
	}
	return settings
}
