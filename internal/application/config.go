package application

// Size limits of an election file. The validate tags below repeat them.
const (
	MaxTotalSeats = 100000
	MaxPolls      = 100
)

// ElectionConfig defines the complete contents of an election file
// and serves as the entry point for declarative poll tracking.
// Use ElectionConfig when the parties and their poll projections are known
// ahead of time rather than entered interactively.
type ElectionConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across releases.
	Version string `yaml:"version" validate:"required,semver"`
	// Election holds the election-wide settings.
	Election ElectionSettings `yaml:"election" validate:"required"`
	// Parties declares every party that polls may reference.
	Parties []PartyConfig `yaml:"parties" validate:"required,min=1,max=10,dive"`
	// Polls lists the polls in the order they are added to the poll list.
	Polls []PollConfig `yaml:"polls" validate:"max=100,dive"`
}

// ElectionSettings carries the seat budget and poll capacity of an
// election.
type ElectionSettings struct {
	// Name is the human-readable name of the election.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// TotalSeats is the number of seats being contested.
	TotalSeats int `yaml:"total_seats" validate:"required,min=1,max=100000"`
	// MaxPolls caps the poll list. When zero, the number of polls in the
	// file is used.
	MaxPolls int `yaml:"max_polls" validate:"omitempty,min=1,max=100"`
}

// PartyConfig declares a party and its optional display colour.
type PartyConfig struct {
	Name string `yaml:"name" validate:"required,max=100,partyname"`
	// Colour is a hex colour such as "#d71920" or "#abc".
	Colour string `yaml:"colour,omitempty" validate:"omitempty,rgbhex"`
}

// PollConfig is a single poll with its projections.
type PollConfig struct {
	Name        string             `yaml:"name" validate:"required,min=1,max=255"`
	Projections []ProjectionConfig `yaml:"projections" validate:"max=10,dive"`
}

// ProjectionConfig is one party's projected result within a poll.
type ProjectionConfig struct {
	Party     string  `yaml:"party" validate:"required,partyname"`
	Seats     float64 `yaml:"seats" validate:"min=0"`
	VoteShare float64 `yaml:"vote_share" validate:"min=0,max=1"`
}
