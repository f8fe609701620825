package openapi

type generatorConfig struct {
	openAPIVersion string
	info           openapiInfo
	path           string
	contentType    string
}

type openapiInfo struct {
	Title       string
	Version     string
	Description string
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		openAPIVersion: "3.0.3",
		info: openapiInfo{
			Title:   "Translations",
			Version: "1.0.0",
		},
		path:        "/translations/{locale}",
		contentType: "application/json",
	}
}

// GeneratorOption configures the OpenAPI generator behaviour.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion overrides the OpenAPI version string (default: 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version == "" {
			return
		}
		cfg.openAPIVersion = version
	}
}

// InfoOption configures optional fields on the OpenAPI info section.
type InfoOption func(*openapiInfo)

// WithInfoDescription sets the optional description field for the info section.
func WithInfoDescription(description string) InfoOption {
	return func(info *openapiInfo) {
		info.Description = description
	}
}

// WithInfo configures the info block. Empty strings retain the existing
// values.
func WithInfo(title, version string, opts ...InfoOption) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.info.Title = title
		}
		if version != "" {
			cfg.info.Version = version
		}
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg.info)
			}
		}
	}
}

// WithPath sets the path serving one locale bundle. It must contain the
// {locale} parameter.
func WithPath(path string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if path != "" {
			cfg.path = path
		}
	}
}

// WithContentType overrides the response media type.
func WithContentType(contentType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if contentType != "" {
			cfg.contentType = contentType
		}
	}
}
