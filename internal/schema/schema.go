// Package schema holds the platform-neutral deployment model that blueprints
// and other manifest formats normalize into.
package schema

// Project represents a complete deployment specification
type Project struct {
	Name      string     `json:"name" yaml:"name"`
	Services  []Service  `json:"services" yaml:"services"`
	Databases []Database `json:"databases,omitempty" yaml:"databases,omitempty"`
}

// Service represents a deployable workload
type Service struct {
	Name         string            `json:"name" yaml:"name"`
	Network      Network           `json:"network" yaml:"network"`
	Runtime      Runtime           `json:"runtime" yaml:"runtime"`
	Build        Build             `json:"build" yaml:"build"`
	Image        string            `json:"image,omitempty" yaml:"image,omitempty"`
	BuildCommand string            `json:"buildCommand,omitempty" yaml:"buildCommand,omitempty"`
	StartCommand string            `json:"startCommand,omitempty" yaml:"startCommand,omitempty"`
	Schedule     string            `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Environment  map[string]EnvVar `json:"environment,omitempty" yaml:"environment,omitempty"`
	Ports        []Port            `json:"ports,omitempty" yaml:"ports,omitempty"`
	Dependencies []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Database represents a managed datastore
type Database struct {
	Name         string   `json:"name" yaml:"name"`
	Engine       string   `json:"engine" yaml:"engine"`
	Plan         string   `json:"plan,omitempty" yaml:"plan,omitempty"`
	InternalOnly bool     `json:"internalOnly" yaml:"internalOnly"`
	AllowedCIDRs []string `json:"allowedCidrs,omitempty" yaml:"allowedCidrs,omitempty"`
}

// EnvVar represents an environment variable with metadata
type EnvVar struct {
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"` // literal, generated, database, service, group, external
	Sensitive bool   `json:"sensitive" yaml:"sensitive"`
}

// Port represents a network port configuration
type Port struct {
	Number   int  `json:"number" yaml:"number"`
	IsPublic bool `json:"isPublic" yaml:"isPublic"`
}

type Network int

const (
	NetworkNone    Network = iota // no network access needed
	NetworkPrivate                // service-to-service only
	NetworkPublic                 // internet-facing
)

func (n Network) String() string {
	switch n {
	case NetworkPrivate:
		return "private"
	case NetworkPublic:
		return "public"
	default:
		return "none"
	}
}

type Runtime int

const (
	RuntimeContinuous Runtime = iota // long-running service
	RuntimeScheduled                 // cron/batch job
)

func (r Runtime) String() string {
	if r == RuntimeScheduled {
		return "scheduled"
	}
	return "continuous"
}

type Build int

const (
	BuildFromSource Build = iota // build from Dockerfile/source
	BuildFromImage               // use pre-built image
)

func (b Build) String() string {
	if b == BuildFromImage {
		return "image"
	}
	return "source"
}

// Enum labels appear in exports rather than raw ints.

func (n Network) MarshalJSON() ([]byte, error) { return marshalLabel(n.String()) }
func (r Runtime) MarshalJSON() ([]byte, error) { return marshalLabel(r.String()) }
func (b Build) MarshalJSON() ([]byte, error)   { return marshalLabel(b.String()) }

func (n Network) MarshalYAML() (interface{}, error) { return n.String(), nil }
func (r Runtime) MarshalYAML() (interface{}, error) { return r.String(), nil }
func (b Build) MarshalYAML() (interface{}, error)   { return b.String(), nil }

func marshalLabel(label string) ([]byte, error) {
	return []byte(`"` + label + `"`), nil
}

// Constructors

func NewProject(name string) *Project {
	return &Project{
		Name:     name,
		Services: make([]Service, 0),
	}
}

func (p *Project) AddService(service Service) {
	p.Services = append(p.Services, service)
}

func (p *Project) AddDatabase(database Database) {
	p.Databases = append(p.Databases, database)
}

func NewService(name string) Service {
	return Service{
		Name:        name,
		Environment: make(map[string]EnvVar),
	}
}

func NewEnvVar(value, source string, sensitive bool) EnvVar {
	return EnvVar{
		Value:     value,
		Source:    source,
		Sensitive: sensitive,
	}
}

func NewPort(number int, isPublic bool) Port {
	return Port{
		Number:   number,
		IsPublic: isPublic,
	}
}
