package application

import (
	"fmt"
	"image/color"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-polltrack/internal/domain"
)

// ConfigVersion is the election file schema version written by
// ExportElection.
const ConfigVersion = "1.0.0"

// ExportElection converts a poll list back into an election file
// configuration. Parties are declared in partyNames order; colours are
// optional and keyed by declared name.
func ExportElection(
	name string,
	list *domain.PollList,
	partyNames []string,
	colours map[string]color.RGBA,
) *ElectionConfig {
	config := &ElectionConfig{
		Version: ConfigVersion,
		Election: ElectionSettings{
			Name:       name,
			TotalSeats: list.TotalSeats(),
			MaxPolls:   list.Capacity(),
		},
		Parties: make([]PartyConfig, 0, len(partyNames)),
		Polls:   make([]PollConfig, 0, list.Len()),
	}

	for _, partyName := range partyNames {
		pc := PartyConfig{Name: partyName}
		if c, ok := colours[partyName]; ok {
			pc.Colour = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		}
		config.Parties = append(config.Parties, pc)
	}

	for _, poll := range list.Polls() {
		pc := PollConfig{Name: poll.Name()}
		for _, party := range poll.Parties() {
			pc.Projections = append(pc.Projections, ProjectionConfig{
				Party:     party.Name(),
				Seats:     party.ProjectedSeats(),
				VoteShare: party.ProjectedVoteShare(),
			})
		}
		config.Polls = append(config.Polls, pc)
	}
	return config
}

// WriteElectionConfig encodes config as YAML with two-space indentation.
func WriteElectionConfig(w io.Writer, config *ElectionConfig) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("encode election: %w", err)
	}
	return encoder.Close()
}
