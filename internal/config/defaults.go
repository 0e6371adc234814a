package config

const (
	bytesPerMB = 1024 * 1024

	// RoleManager submits listings with status "draft"; every other role publishes.
	RoleManager = "manager"

	defaultAPIBaseURL        = "http://localhost:3000"
	defaultAuthCookie        = "access_token"
	defaultAPITimeoutSeconds = 120
	defaultUserAgent         = "listwise/dev"
	defaultRole              = "user"
	defaultMaxImages         = 6
	defaultMaxImagesEdit     = 5
	defaultMaxTotalImageMB   = 5
	defaultImageMaxEdge      = 800
	defaultImageQuality      = 60
	defaultVideoMaxMB        = 50
	defaultVideoMaxSeconds   = 60
	defaultFFprobeBinary     = "ffprobe"
	defaultLogDir            = "~/.local/share/listwise/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultAPIBaseURL,
			AuthCookie:     defaultAuthCookie,
			TimeoutSeconds: defaultAPITimeoutSeconds,
			UserAgent:      defaultUserAgent,
		},
		Account: Account{
			Role: defaultRole,
		},
		Media: Media{
			MaxImages:       defaultMaxImages,
			MaxImagesEdit:   defaultMaxImagesEdit,
			MaxTotalImageMB: defaultMaxTotalImageMB,
			ImageMaxEdge:    defaultImageMaxEdge,
			ImageQuality:    defaultImageQuality,
			VideoMaxMB:      defaultVideoMaxMB,
			VideoMaxSeconds: defaultVideoMaxSeconds,
			FFprobeBinary:   defaultFFprobeBinary,
		},
		Paths: Paths{
			DataDir: defaultDataDir(),
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
