package config

// Configuration file names.
const (
	// ConfigFileName is the name of the project config file.
	ConfigFileName = "leapreq.yaml"

	// ConfigFileNameAlt is the alternate name of the project config file.
	ConfigFileNameAlt = "leapreq.yml"

	// DocumentConfigName is the per-document config file that marks a
	// directory as a requirements document.
	DocumentConfigName = ".leapreq.yml"
)

// Default configuration values.
const (
	DefaultServerHost    = "127.0.0.1"
	DefaultServerPort    = 7867
	DefaultDigits        = 3
	DefaultVCSMode       = "auto"
	DefaultFailOn        = "warning"
	DefaultPublishFormat = "markdown"
)

// DefaultSkipExtensions lists file extensions excluded from keyword
// content scanning. These are binary or otherwise non-text formats whose
// bytes can never hold a requirement keyword. Explicit file and search
// references ignore this list.
var DefaultSkipExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico",
	".pdf",
	".zip", ".gz", ".tgz", ".tar", ".7z",
	".exe", ".dll", ".so", ".dylib", ".o", ".a",
	".bin", ".dat", ".db", ".sqlite",
	".woff", ".woff2", ".ttf", ".eot",
	".mp3", ".mp4", ".mov",
}

// ApplyDefaults applies default values to a ProjectConfig.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.VCS == "" {
		c.VCS = DefaultVCSMode
	}
	if c.FailOn == "" {
		c.FailOn = DefaultFailOn
	}
	if len(c.SkipExtensions) == 0 {
		c.SkipExtensions = append([]string(nil), DefaultSkipExtensions...)
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	ApplyServerDefaults(c.Server)
	if c.Publish == nil {
		c.Publish = &PublishConfig{}
	}
	ApplyPublishDefaults(c.Publish)
}

// ApplyServerDefaults applies default values to a ServerConfig.
func ApplyServerDefaults(s *ServerConfig) {
	if s == nil {
		return
	}
	if s.Host == "" {
		s.Host = DefaultServerHost
	}
	if s.Port == 0 {
		s.Port = DefaultServerPort
	}
}

// ApplyPublishDefaults applies default values to a PublishConfig.
func ApplyPublishDefaults(p *PublishConfig) {
	if p == nil {
		return
	}
	if p.Format == "" {
		p.Format = DefaultPublishFormat
	}
}
