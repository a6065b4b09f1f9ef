// Package blueprint models Render-style deployment blueprints (render.yaml):
// the services, managed databases, and environment variable groups a hosting
// platform provisions from a single declarative file.
package blueprint

// Blueprint is the root of a render.yaml file.
type Blueprint struct {
	Services     []Service     `yaml:"services"`
	Databases    []Database    `yaml:"databases,omitempty"`
	EnvVarGroups []EnvVarGroup `yaml:"envVarGroups,omitempty"`
	Previews     *Previews     `yaml:"previews,omitempty"`

	// Path is the file this blueprint was parsed from. Not part of the
	// manifest itself.
	Path string `yaml:"-"`
}

// Service is a deployable workload: a web service, background worker,
// cron job, private service, or static site.
type Service struct {
	Type              string   `yaml:"type"`
	Name              string   `yaml:"name"`
	Runtime           string   `yaml:"runtime,omitempty"`
	Env               string   `yaml:"env,omitempty"` // legacy alias for runtime
	Plan              string   `yaml:"plan,omitempty"`
	Region            string   `yaml:"region,omitempty"`
	Repo              string   `yaml:"repo,omitempty"`
	Branch            string   `yaml:"branch,omitempty"`
	RootDir           string   `yaml:"rootDir,omitempty"`
	BuildCommand      string   `yaml:"buildCommand,omitempty"`
	StartCommand      string   `yaml:"startCommand,omitempty"`
	PreDeployCommand  string   `yaml:"preDeployCommand,omitempty"`
	Schedule          string   `yaml:"schedule,omitempty"`
	Domains           []string `yaml:"domains,omitempty"`
	HealthCheckPath   string   `yaml:"healthCheckPath,omitempty"`
	StaticPublishPath string   `yaml:"staticPublishPath,omitempty"`
	Image             *Image   `yaml:"image,omitempty"`
	Scaling           *Scaling `yaml:"scaling,omitempty"`
	NumInstances      int      `yaml:"numInstances,omitempty"`
	AutoDeploy        *bool    `yaml:"autoDeploy,omitempty"`
	Disk              *Disk    `yaml:"disk,omitempty"`
	EnvVars           []EnvVar `yaml:"envVars,omitempty"`
}

// RuntimeName returns the service runtime, honoring the legacy env key.
func (s Service) RuntimeName() string {
	if s.Runtime != "" {
		return s.Runtime
	}
	return s.Env
}

// Image references a prebuilt container image instead of a source build.
type Image struct {
	URL   string      `yaml:"url"`
	Creds *ImageCreds `yaml:"creds,omitempty"`
}

type ImageCreds struct {
	FromRegistryCreds *RegistryCred `yaml:"fromRegistryCreds,omitempty"`
}

type RegistryCred struct {
	Name string `yaml:"name"`
}

// Scaling configures horizontal autoscaling bounds.
type Scaling struct {
	MinInstances        int `yaml:"minInstances"`
	MaxInstances        int `yaml:"maxInstances"`
	TargetCPUPercent    int `yaml:"targetCPUPercent,omitempty"`
	TargetMemoryPercent int `yaml:"targetMemoryPercent,omitempty"`
}

// Disk attaches a persistent volume to a service.
type Disk struct {
	Name      string `yaml:"name"`
	MountPath string `yaml:"mountPath"`
	SizeGB    int    `yaml:"sizeGB,omitempty"`
}

// EnvVar binds one environment variable for a service. Exactly one value
// source may be set: a literal value, a platform-generated value, a database
// property, another service's property, or membership in an env var group.
type EnvVar struct {
	Key           string          `yaml:"key,omitempty"`
	Value         string          `yaml:"value,omitempty"`
	GenerateValue bool            `yaml:"generateValue,omitempty"`
	Sync          *bool           `yaml:"sync,omitempty"`
	FromDatabase  *EnvFromDB      `yaml:"fromDatabase,omitempty"`
	FromService   *EnvFromService `yaml:"fromService,omitempty"`
	FromGroup     string          `yaml:"fromGroup,omitempty"`
}

// EnvFromDB sources an env var from a managed database property.
type EnvFromDB struct {
	Name     string `yaml:"name"`
	Property string `yaml:"property"`
}

// EnvFromService sources an env var from a sibling service.
type EnvFromService struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Property  string `yaml:"property,omitempty"`
	EnvVarKey string `yaml:"envVarKey,omitempty"`
}

// Database is a managed database instance. An empty IPAllowList means no
// external address may connect; traffic stays on the platform network.
type Database struct {
	Name                 string        `yaml:"name"`
	Plan                 string        `yaml:"plan,omitempty"`
	Region               string        `yaml:"region,omitempty"`
	DatabaseName         string        `yaml:"databaseName,omitempty"`
	User                 string        `yaml:"user,omitempty"`
	PostgresMajorVersion string        `yaml:"postgresMajorVersion,omitempty"`
	IPAllowList          []AllowedCIDR `yaml:"ipAllowList"`
}

// databaseYAML mirrors Database for encoding. The pointer keeps an absent
// ipAllowList (open to the world) distinct from an explicitly empty one
// (internal traffic only).
type databaseYAML struct {
	Name                 string         `yaml:"name"`
	Plan                 string         `yaml:"plan,omitempty"`
	Region               string         `yaml:"region,omitempty"`
	DatabaseName         string         `yaml:"databaseName,omitempty"`
	User                 string         `yaml:"user,omitempty"`
	PostgresMajorVersion string         `yaml:"postgresMajorVersion,omitempty"`
	IPAllowList          *[]AllowedCIDR `yaml:"ipAllowList,omitempty"`
}

func (d Database) MarshalYAML() (interface{}, error) {
	out := databaseYAML{
		Name:                 d.Name,
		Plan:                 d.Plan,
		Region:               d.Region,
		DatabaseName:         d.DatabaseName,
		User:                 d.User,
		PostgresMajorVersion: d.PostgresMajorVersion,
	}
	if d.IPAllowList != nil {
		out.IPAllowList = &d.IPAllowList
	}
	return out, nil
}

// AllowedCIDR is one entry in a database network allow-list.
type AllowedCIDR struct {
	Source      string `yaml:"source"`
	Description string `yaml:"description,omitempty"`
}

// EnvVarGroup is a named set of env vars shared across services.
type EnvVarGroup struct {
	Name    string   `yaml:"name"`
	EnvVars []EnvVar `yaml:"envVars"`
}

// Previews configures preview environment generation.
type Previews struct {
	Generation string `yaml:"generation,omitempty"`
}

// Known value sets for validation.
var (
	ServiceTypes = []string{"web", "worker", "cron", "pserv", "static"}

	Runtimes = []string{
		"python", "node", "go", "ruby", "rust", "elixir",
		"docker", "image", "static",
	}

	ServicePlans = []string{
		"free", "starter", "standard", "pro", "pro plus", "pro max", "pro ultra",
	}

	DatabasePlans = []string{
		"free", "basic-256mb", "basic-1gb", "basic-4gb",
		"pro-4gb", "pro-8gb", "pro-16gb", "pro-32gb",
	}

	DatabaseProperties = []string{
		"connectionString", "host", "port", "user", "password", "database",
	}

	ServiceProperties = []string{
		"host", "port", "hostport",
	}

	PreviewGenerations = []string{"off", "manual", "automatic"}
)

// Known reports whether value is in the given known set.
func Known(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
